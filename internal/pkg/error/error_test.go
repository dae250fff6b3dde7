package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		kind   Kind
		status int
		code   int
		msg    string
	}{
		{"configuration", Configuration("missing"), KindConfiguration, 500, 500, "missing"},
		{"unauthorized default", Unauthorized(), KindAuthentication, 401, 401, "未登录"},
		{"unauthorized custom", Unauthorized("token expired"), KindAuthentication, 401, 401, "token expired"},
		{"invalid argument", InvalidArgument("bad"), KindInvalidArgument, 400, 400, "bad"},
		{"upstream", Upstream(429, "quota", nil), KindUpstream, 429, 429, "quota"},
		{"upstream non error status", Upstream(0, "boom", nil), KindUpstream, 500, 500, "boom"},
		{"rate limited", RateLimitExceeded("slow down"), KindRateLimited, 429, 429, "slow down"},
		{"internal", InternalServer("oops"), KindInternal, 500, 500, "oops"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind())
			assert.Equal(t, tc.status, tc.err.HttpCode())
			assert.Equal(t, tc.code, tc.err.ErrorCode())
			assert.Equal(t, tc.msg, tc.err.Message())
		})
	}
}

func TestUpstreamKeepsDetail(t *testing.T) {
	detail := map[string]any{"error": map[string]any{"message": "quota exceeded"}}
	err := Upstream(http.StatusTooManyRequests, "quota exceeded", detail)
	assert.Equal(t, detail, err.Detail())
}

func TestFromAndWrap(t *testing.T) {
	assert.Nil(t, From(nil))

	plain := errors.New("disk full")
	got := From(plain)
	assert.Equal(t, KindInternal, got.Kind())
	assert.ErrorIs(t, got, plain)

	cause := errors.New("asn1: structure error")
	wrapped := fmt.Errorf("resolve: %w", Configuration("Failed to parse").Wrap(cause))
	require.True(t, IsKind(wrapped, KindConfiguration))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, KindConfiguration, From(wrapped).Kind())
	assert.Equal(t, "Failed to parse", From(wrapped).Message())
	assert.Contains(t, From(wrapped).Error(), "asn1")
}

func TestWrapDoesNotMutateReceiver(t *testing.T) {
	base := InvalidArgument("bad")
	_ = base.Wrap(errors.New("x")).WithDetail("d")
	assert.Nil(t, base.Unwrap())
	assert.Nil(t, base.Detail())
}
