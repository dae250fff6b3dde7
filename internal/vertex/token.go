package vertex

import (
	"context"
	"net/http"
	"time"

	"imagen-gateway/internal/core"
	cErr "imagen-gateway/internal/pkg/error"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const errTokenUnavailable = "Failed to get access token"

type AccessToken string

// Prefix 只露出前 n 個字元，用於診斷
func (t AccessToken) Prefix(n int) string {
	if t == "" {
		return "N/A"
	}
	if len(t) <= n {
		return string(t) + "..."
	}
	return string(t[:n]) + "..."
}

// TokenResult token 來源可能是純字串或 oauth2.Token，兩者擇一
type TokenResult struct {
	Raw    string
	Object *oauth2.Token
}

func RawToken(s string) TokenResult { return TokenResult{Raw: s} }

func ObjectToken(t *oauth2.Token) TokenResult { return TokenResult{Object: t} }

// Value 在邊界一次轉成 AccessToken
func (r TokenResult) Value() (AccessToken, error) {
	var v string
	if r.Object != nil {
		v = r.Object.AccessToken
	} else {
		v = r.Raw
	}
	if v == "" {
		return "", cErr.InternalServer(errTokenUnavailable)
	}
	return AccessToken(v), nil
}

// Expiry 純字串沒有到期時間，回傳零值
func (r TokenResult) Expiry() time.Time {
	if r.Object != nil {
		return r.Object.Expiry
	}
	return time.Time{}
}

func (r TokenResult) Shape() string {
	if r.Object != nil {
		return "object"
	}
	return "raw"
}

type TokenFetcher interface {
	Fetch(ctx context.Context, cred *ServiceAccountCredential) (TokenResult, error)
}

// OAuth2Fetcher 以 service account 簽 JWT 向 token_uri 換 access token
type OAuth2Fetcher struct {
	// token 端點使用的 client，nil 時用 http.DefaultClient
	HTTPClient *http.Client
	Scopes     []string
}

func NewOAuth2Fetcher() *OAuth2Fetcher {
	return &OAuth2Fetcher{Scopes: []string{core.CloudPlatformScope}}
}

func (f *OAuth2Fetcher) Fetch(ctx context.Context, cred *ServiceAccountCredential) (TokenResult, error) {
	raw, err := cred.JSON()
	if err != nil {
		return TokenResult{}, cErr.Configuration(errCredentialsParse).Wrap(err)
	}
	scopes := f.Scopes
	if len(scopes) == 0 {
		scopes = []string{core.CloudPlatformScope}
	}
	jwtConf, err := google.JWTConfigFromJSON(raw, scopes...)
	if err != nil {
		return TokenResult{}, cErr.Configurationf("%s: %s", errCredentialsParse, err.Error()).Wrap(err)
	}
	if f.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.HTTPClient)
	}
	tok, err := jwtConf.TokenSource(ctx).Token()
	if err != nil {
		return TokenResult{}, cErr.InternalServer(errTokenUnavailable).Wrap(err)
	}
	return ObjectToken(tok), nil
}
