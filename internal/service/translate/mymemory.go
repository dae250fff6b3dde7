package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"imagen-gateway/internal/pkg/httpbody"
)

// MyMemory GET {base}/get?q=...&langpair=zh|en
type MyMemory struct {
	baseURL string
	client  *http.Client
}

func NewMyMemory(baseURL string, client *http.Client) *MyMemory {
	if client == nil {
		client = http.DefaultClient
	}
	return &MyMemory{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (m *MyMemory) Name() string { return "mymemory" }

type myMemoryResponse struct {
	ResponseData *struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// 有時是數字，有時是字串
	ResponseStatus json.RawMessage `json:"responseStatus"`
	QuotaFinished  bool            `json:"quotaFinished"`
}

func (m *MyMemory) Translate(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", SourceLang+"|"+TargetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := httpbody.Read(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mymemory: http status %d", resp.StatusCode)
	}

	var out myMemoryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("mymemory: decode response: %w", err)
	}
	if status := statusCode(out.ResponseStatus); status != http.StatusOK {
		return "", fmt.Errorf("mymemory: responseStatus %s", string(bytes.TrimSpace(out.ResponseStatus)))
	}
	if out.QuotaFinished {
		return "", fmt.Errorf("mymemory: quota finished")
	}
	if out.ResponseData == nil || strings.TrimSpace(out.ResponseData.TranslatedText) == "" {
		return "", fmt.Errorf("mymemory: empty translatedText")
	}
	return out.ResponseData.TranslatedText, nil
}

func statusCode(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
