package vertex

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	cErr "imagen-gateway/internal/pkg/error"

	"go.uber.org/zap/zapcore"
)

const (
	EnvCredentials = "GOOGLE_CREDENTIALS"

	errCredentialsNotSet = "GOOGLE_CREDENTIALS environment variable is not set"
	errCredentialsParse  = "Failed to parse GOOGLE_CREDENTIALS"

	literalNewline = `\n`
)

// ServiceAccountCredential Google service account key file
// PrivateKey 內只會有真正的換行，不會有字面 \n
type ServiceAccountCredential struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id,omitempty"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id,omitempty"`
	AuthURI                 string `json:"auth_uri,omitempty"`
	TokenURI                string `json:"token_uri,omitempty"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url,omitempty"`
	ClientX509CertURL       string `json:"client_x509_cert_url,omitempty"`
	UniverseDomain          string `json:"universe_domain,omitempty"`
}

// CredentialSource 每次呼叫都重新讀取原始 JSON
type CredentialSource func() (string, error)

// EnvSource 先讀行程環境變數，沒有才用設定檔
func EnvSource(conf *config.Configuration) CredentialSource {
	return func() (string, error) {
		if raw := os.Getenv(EnvCredentials); strings.TrimSpace(raw) != "" {
			return raw, nil
		}
		if conf != nil {
			return conf.Google.Credentials, nil
		}
		return "", nil
	}
}

func StaticSource(raw string) CredentialSource {
	return func() (string, error) { return raw, nil }
}

// ParseCleanup 未知值一律使用 global
func ParseCleanup(s string) core.CredentialsCleanup {
	if core.CredentialsCleanup(strings.ToLower(strings.TrimSpace(s))) == core.CredentialsCleanupTrailing {
		return core.CredentialsCleanupTrailing
	}
	return core.CredentialsCleanupGlobal
}

func Resolve(raw string) (*ServiceAccountCredential, error) {
	return ResolveWith(raw, core.CredentialsCleanupGlobal)
}

// ResolveWith 不做任何網路呼叫
func ResolveWith(raw string, strategy core.CredentialsCleanup) (*ServiceAccountCredential, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, cErr.Configuration(errCredentialsNotSet)
	}

	switch strategy {
	case core.CredentialsCleanupTrailing:
		cleaned = strings.TrimSuffix(cleaned, literalNewline)
	default:
		cleaned = escapeControlInStrings(strings.ReplaceAll(cleaned, literalNewline, "\n"))
	}

	var cred ServiceAccountCredential
	if err := json.Unmarshal([]byte(cleaned), &cred); err != nil {
		return nil, cErr.Configurationf("%s: %s", errCredentialsParse, err.Error()).Wrap(err)
	}

	// 重複跳脫（\\n）或 trailing 策略會留下字面 \n
	if strings.Contains(cred.PrivateKey, literalNewline) {
		cred.PrivateKey = strings.ReplaceAll(cred.PrivateKey, literalNewline, "\n")
	}
	return &cred, nil
}

// JSON 重新編碼給 token signer 使用
func (c *ServiceAccountCredential) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// Fingerprint 僅作為 token 快取 key
func (c *ServiceAccountCredential) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(c.ClientEmail))
	h.Write([]byte{0})
	h.Write([]byte(c.PrivateKeyID))
	h.Write([]byte{0})
	h.Write([]byte(c.PrivateKey))
	return hex.EncodeToString(h.Sum(nil))
}

// MarshalLogObject 不輸出 private key
func (c *ServiceAccountCredential) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", c.Type)
	enc.AddString("project_id", c.ProjectID)
	enc.AddString("client_email", c.ClientEmail)
	enc.AddString("private_key_id", c.PrivateKeyID)
	return nil
}

// escapeControlInStrings 把 JSON 字串內的原始控制字元轉回跳脫序列
// 字串外的換行是合法空白，保持不動
func escapeControlInStrings(s string) string {
	var (
		buf      bytes.Buffer
		inString bool
		escaped  bool
	)
	buf.Grow(len(s) + 16)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !inString {
			if ch == '"' {
				inString = true
			}
			buf.WriteByte(ch)
			continue
		}

		if escaped {
			escaped = false
			// 原本是 \\n：反斜線後面接到換行，視為一個 \n 跳脫
			if ch < 0x20 {
				buf.WriteString(controlEscape(ch)[1:])
				continue
			}
			buf.WriteByte(ch)
			continue
		}

		switch {
		case ch == '\\':
			escaped = true
			buf.WriteByte(ch)
		case ch == '"':
			inString = false
			buf.WriteByte(ch)
		case ch < 0x20:
			buf.WriteString(controlEscape(ch))
		default:
			buf.WriteByte(ch)
		}
	}
	return buf.String()
}

func controlEscape(ch byte) string {
	switch ch {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	default:
		const hexDigits = "0123456789abcdef"
		return `\u00` + string(hexDigits[ch>>4]) + string(hexDigits[ch&0xf])
	}
}
