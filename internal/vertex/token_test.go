package vertex

import (
	"context"
	"testing"
	"time"

	cErr "imagen-gateway/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenResultValue(t *testing.T) {
	v, err := RawToken("abc").Value()
	require.NoError(t, err)
	assert.Equal(t, AccessToken("abc"), v)

	v, err = ObjectToken(&oauth2.Token{AccessToken: "xyz"}).Value()
	require.NoError(t, err)
	assert.Equal(t, AccessToken("xyz"), v)

	for _, empty := range []TokenResult{{}, RawToken(""), ObjectToken(&oauth2.Token{})} {
		_, err := empty.Value()
		require.Error(t, err)
		assert.Equal(t, "Failed to get access token", cErr.From(err).Message())
	}
}

func TestTokenResultShapeAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	assert.Equal(t, "raw", RawToken("a").Shape())
	assert.True(t, RawToken("a").Expiry().IsZero())
	assert.Equal(t, "object", ObjectToken(&oauth2.Token{AccessToken: "a", Expiry: exp}).Shape())
	assert.Equal(t, exp, ObjectToken(&oauth2.Token{AccessToken: "a", Expiry: exp}).Expiry())
}

func TestAccessTokenPrefix(t *testing.T) {
	assert.Equal(t, "N/A", AccessToken("").Prefix(30))
	assert.Equal(t, "abc...", AccessToken("abc").Prefix(30))
	assert.Equal(t, "ab...", AccessToken("abcdef").Prefix(2))
}

type stubFetcher struct {
	result TokenResult
	err    error
	calls  int
}

func (s *stubFetcher) Fetch(context.Context, *ServiceAccountCredential) (TokenResult, error) {
	s.calls++
	return s.result, s.err
}

func TestTokenProviderAcceptsRawShape(t *testing.T) {
	fetcher := &stubFetcher{result: RawToken("raw-token")}
	p := NewTokenProvider(fetcher, NewMemoryTokenCache(), nil, nil, nil)
	cred := &ServiceAccountCredential{ClientEmail: "a@b.c"}

	for i := 0; i < 2; i++ {
		tok, err := p.Token(context.Background(), cred)
		require.NoError(t, err)
		assert.Equal(t, AccessToken("raw-token"), tok)
	}
	// 純字串沒有到期時間，不會被快取
	assert.Equal(t, 2, fetcher.calls)
}

func TestMemoryTokenCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryTokenCache()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", CachedToken{Token: "t", ExpiresAt: now.Add(time.Hour)}))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, AccessToken("t"), got.Token)

	// 進入 skew 範圍視為過期
	now = now.Add(time.Hour - 30*time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", CachedToken{Token: "t2", ExpiresAt: now.Add(10 * time.Second)}))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", CachedToken{Token: "t3", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, c.Invalidate(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

type ctxFetcher struct {
	seen error
}

func (f *ctxFetcher) Fetch(ctx context.Context, _ *ServiceAccountCredential) (TokenResult, error) {
	f.seen = ctx.Err()
	if f.seen != nil {
		return TokenResult{}, f.seen
	}
	return ObjectToken(&oauth2.Token{AccessToken: "shared", Expiry: time.Now().Add(time.Hour)}), nil
}

func TestTokenProviderSharedFetchIgnoresCallerCancel(t *testing.T) {
	fetcher := &ctxFetcher{}
	p := NewTokenProvider(fetcher, NewMemoryTokenCache(), nil, nil, nil)
	cred := &ServiceAccountCredential{ClientEmail: "a@b.c"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tok, err := p.Token(ctx, cred)
	require.NoError(t, err)
	assert.NoError(t, fetcher.seen)
	assert.Equal(t, AccessToken("shared"), tok)

	// 結果已寫入快取，後續請求直接命中
	tok, err = p.Token(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, AccessToken("shared"), tok)
}
