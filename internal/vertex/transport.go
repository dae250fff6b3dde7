package vertex

import (
	"net/http"

	"imagen-gateway/internal/core"
	"imagen-gateway/internal/telemetry"

	"go.uber.org/zap"
)

// AuthTransport 每個請求送出前：解析憑證 → 取得 token → 設定 Bearer
// 任何一步失敗都不會觸及網路
type AuthTransport struct {
	Base    http.RoundTripper
	Source  CredentialSource
	Cleanup core.CredentialsCleanup
	Tokens  *TokenProvider
	Trace   *telemetry.Trace
	Logger  *zap.Logger
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	cred, err := t.resolve(req)
	if err != nil {
		closeBody(req)
		return nil, err
	}

	tok, err := t.Tokens.Token(ctx, cred)
	if err != nil {
		closeBody(req)
		return nil, err
	}

	ctx, span, end := t.Trace.WithSpan(ctx, string(core.SpanVertexRoundTrip))
	meta := core.TraceVertexMeta{Method: req.Method, URL: req.URL.Redacted()}

	out := req.Clone(ctx)
	out.Header.Set("Authorization", "Bearer "+string(tok))
	t.Trace.InjectHeaders(ctx, out.Header)

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		t.Trace.ApplyTraceAttributes(span, meta)
		end(err)
		return nil, err
	}
	meta.Status = resp.StatusCode
	t.Trace.ApplyTraceAttributes(span, meta)
	end(nil)

	if resp.StatusCode == http.StatusUnauthorized {
		t.logger().Warn("[Vertex] upstream rejected access token, invalidating cache",
			zap.String("url", meta.URL),
			zap.Object("credentials", cred),
		)
		t.Tokens.Invalidate(ctx, cred)
	}
	return resp, nil
}

func (t *AuthTransport) resolve(req *http.Request) (*ServiceAccountCredential, error) {
	_, span, end := t.Trace.WithSpan(req.Context(), string(core.SpanResolveCredentials))
	meta := core.TraceCredentialMeta{Source: "env", Cleanup: string(t.Cleanup)}

	raw, err := t.Source()
	if err == nil {
		var cred *ServiceAccountCredential
		cred, err = ResolveWith(raw, t.Cleanup)
		if err == nil {
			meta.ClientEmail = cred.ClientEmail
			meta.ProjectID = cred.ProjectID
			meta.PrivateKeyID = cred.PrivateKeyID
			t.Trace.ApplyTraceAttributes(span, meta)
			end(nil)
			return cred, nil
		}
	}
	t.Trace.ApplyTraceAttributes(span, meta)
	end(err)
	return nil, err
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) logger() *zap.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return zap.NewNop()
}

// RoundTripper 失敗時必須關閉 request body
func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
