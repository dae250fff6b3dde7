package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	cErr "imagen-gateway/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

// Validator 請求結構自訂錯誤訊息
// key 格式：validator 錯誤為 "欄位.tag"，JSON 型別錯誤為 "json名稱.type"
type Validator interface {
	GetMessages() ValidatorMessages
}

type ValidatorMessages map[string]string

var reg = regexp.MustCompile(`\[\d\]`)

// GetError 從請求和綁定錯誤中取得第一個錯誤訊息
func GetError(request any, err error) *cErr.Error {
	v, isValidator := request.(Validator)

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return cErr.PayloadTooLarge("Request body too large")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if isValidator {
			if message, ok := v.GetMessages()[typeErr.Field+".type"]; ok {
				return cErr.InvalidArgument(message)
			}
		}
		return cErr.InvalidArgument("Parameter type error: " + typeErr.Field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return cErr.InvalidArgument("Invalid JSON body")
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		var errorMessages []string
		for _, fe := range validationErrs {
			if isValidator {
				field := reg.ReplaceAllString(fe.Field(), ".*")
				if message, exist := v.GetMessages()[field+"."+fe.Tag()]; exist {
					errorMessages = append(errorMessages, message)
					continue
				}
			}
			errorMessages = append(errorMessages, fe.Error())
		}
		if len(errorMessages) > 0 {
			return cErr.InvalidArgument(errorMessages[0])
		}
	}

	return cErr.InvalidArgument("Parameter error")
}
