// Package vertextest 提供測試用的 service account 與 token 端點
package vertextest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const AccessToken = "ya29.test-access-token-0123456789abcdefghijklmnop"

// TokenServer 模擬 oauth2.googleapis.com/token
type TokenServer struct {
	*httptest.Server
	calls  atomic.Int32
	status atomic.Int32
}

func NewTokenServer(t *testing.T) *TokenServer {
	t.Helper()
	ts := &TokenServer{}
	ts.status.Store(http.StatusOK)
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.calls.Add(1)
		if err := r.ParseForm(); err != nil || r.Form.Get("assertion") == "" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if code := int(ts.status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid JWT Signature."}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": AccessToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TokenServer) Calls() int { return int(ts.calls.Load()) }

// Fail 之後的請求都回傳指定狀態碼
func (ts *TokenServer) Fail(status int) { ts.status.Store(int32(status)) }

func (ts *TokenServer) TokenURI() string { return ts.URL + "/token" }

// PrivateKeyPEM 每次產生新的 RSA key（PKCS8）
func PrivateKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

// ServiceAccountJSON 標準 key file 格式（縮排、private_key 內為 \n 跳脫）
func ServiceAccountJSON(t *testing.T, tokenURI string) string {
	t.Helper()
	b, err := json.MarshalIndent(map[string]string{
		"type":           "service_account",
		"project_id":     "demo-project",
		"private_key_id": "key-1",
		"private_key":    PrivateKeyPEM(t),
		"client_email":   "imagen@demo-project.iam.gserviceaccount.com",
		"client_id":      "1234567890",
		"token_uri":      tokenURI,
	}, "", "  ")
	require.NoError(t, err)
	return string(b)
}
