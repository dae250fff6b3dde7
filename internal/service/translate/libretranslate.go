package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"imagen-gateway/internal/pkg/httpbody"
)

// LibreTranslate POST {base}/translate
type LibreTranslate struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewLibreTranslate(baseURL, apiKey string, client *http.Client) *LibreTranslate {
	if client == nil {
		client = http.DefaultClient
	}
	return &LibreTranslate{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (l *LibreTranslate) Name() string { return "libretranslate" }

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (l *LibreTranslate) Translate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      text,
		Source: SourceLang,
		Target: TargetLang,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := httpbody.Read(resp)
	if err != nil {
		return "", err
	}

	var out libreResponse
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", fmt.Errorf("libretranslate: http status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("libretranslate: http status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("libretranslate: decode response: %w", decodeErr)
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		return "", fmt.Errorf("libretranslate: empty translatedText")
	}
	return out.TranslatedText, nil
}
