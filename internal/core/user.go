package core

// 放在 gin.Context 的 key
const (
	ContextSessionUserKey = "sessionUser"
	ContextRequestIDKey   = "requestID"
)

// SessionUser 已驗證的登入使用者
type SessionUser struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"image,omitempty"`
}
