package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"imagen-gateway/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsChinese(t *testing.T) {
	assert.False(t, ContainsChinese("hello"))
	assert.True(t, ContainsChinese("你好"))
	assert.True(t, ContainsChinese("hello 你好"))
	assert.False(t, ContainsChinese(""))
	// 平假名、韓文不在範圍內
	assert.False(t, ContainsChinese("こんにちは"))
	assert.False(t, ContainsChinese("안녕하세요"))
	// 邊界
	assert.True(t, ContainsChinese("一"))
	assert.True(t, ContainsChinese("龥"))
	assert.False(t, ContainsChinese("龦"))
}

type fakeServers struct {
	primary, fallback           *httptest.Server
	primaryHits, fallbackHits   atomic.Int32
	primaryFails, fallbackFails atomic.Bool
	primaryDelay                time.Duration
}

func newFakeServers(t *testing.T) *fakeServers {
	fs := &fakeServers{}
	fs.primary = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.primaryHits.Add(1)
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "zh|en", r.URL.Query().Get("langpair"))
		if fs.primaryDelay > 0 {
			select {
			case <-time.After(fs.primaryDelay):
			case <-r.Context().Done():
				return
			}
		}
		if fs.primaryFails.Load() {
			_, _ = w.Write([]byte(`{"responseData":{"translatedText":"INVALID LANGUAGE PAIR"},"responseStatus":"403"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseData":   map[string]any{"translatedText": "a cat on the moon"},
			"responseStatus": 200,
		})
	}))
	fs.fallback = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.fallbackHits.Add(1)
		assert.Equal(t, "/translate", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "zh", body["source"])
		assert.Equal(t, "en", body["target"])
		assert.Equal(t, "text", body["format"])
		if fs.fallbackFails.Load() {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
			return
		}
		_, _ = w.Write([]byte(`{"translatedText":"a cat on the moon (libre)"}`))
	}))
	t.Cleanup(fs.primary.Close)
	t.Cleanup(fs.fallback.Close)
	return fs
}

func (fs *fakeServers) translator(timeout time.Duration) *Translator {
	return New([]Strategy{
		NewMyMemory(fs.primary.URL, nil),
		NewLibreTranslate(fs.fallback.URL, "", nil),
	}, timeout, nil, nil, nil)
}

func TestNonChineseMakesNoCalls(t *testing.T) {
	fs := newFakeServers(t)
	tr := fs.translator(time.Second)

	assert.Equal(t, "a cat on the moon", tr.DetectAndTranslate(context.Background(), "a cat on the moon"))
	assert.Equal(t, int32(0), fs.primaryHits.Load())
	assert.Equal(t, int32(0), fs.fallbackHits.Load())
}

func TestPrimarySuccess(t *testing.T) {
	fs := newFakeServers(t)
	tr := fs.translator(time.Second)

	assert.Equal(t, "a cat on the moon", tr.DetectAndTranslate(context.Background(), "月球上的猫"))
	assert.Equal(t, int32(1), fs.primaryHits.Load())
	assert.Equal(t, int32(0), fs.fallbackHits.Load())
}

func TestFallbackOnPrimaryFailure(t *testing.T) {
	fs := newFakeServers(t)
	fs.primaryFails.Store(true)
	tr := fs.translator(time.Second)

	assert.Equal(t, "a cat on the moon (libre)", tr.DetectAndTranslate(context.Background(), "月球上的猫"))
	assert.Equal(t, int32(1), fs.primaryHits.Load())
	assert.Equal(t, int32(1), fs.fallbackHits.Load())
}

func TestFallbackOnPrimaryTimeout(t *testing.T) {
	fs := newFakeServers(t)
	fs.primaryDelay = 2 * time.Second
	tr := fs.translator(100 * time.Millisecond)

	start := time.Now()
	assert.Equal(t, "a cat on the moon (libre)", tr.DetectAndTranslate(context.Background(), "月球上的猫"))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBothFailReturnsOriginal(t *testing.T) {
	fs := newFakeServers(t)
	fs.primaryFails.Store(true)
	fs.fallbackFails.Store(true)
	tr := fs.translator(time.Second)

	assert.Equal(t, "月球上的猫", tr.DetectAndTranslate(context.Background(), "月球上的猫"))
	assert.Equal(t, int32(1), fs.fallbackHits.Load())
}

func TestUnreachableServicesReturnOriginal(t *testing.T) {
	tr := New([]Strategy{
		NewMyMemory("http://127.0.0.1:1", nil),
		NewLibreTranslate("http://127.0.0.1:1", "", nil),
	}, 500*time.Millisecond, nil, nil, nil)

	assert.Equal(t, "你好", tr.DetectAndTranslate(context.Background(), "你好"))
}

type errStrategy struct{ calls int }

func (e *errStrategy) Name() string { return "err" }
func (e *errStrategy) Translate(context.Context, string) (string, error) {
	e.calls++
	return "", errors.New("boom")
}

type emptyStrategy struct{}

func (emptyStrategy) Name() string                                      { return "empty" }
func (emptyStrategy) Translate(context.Context, string) (string, error) { return "   ", nil }

func TestChainOrderAndIdentity(t *testing.T) {
	first := &errStrategy{}
	tr := New([]Strategy{first, emptyStrategy{}}, time.Second, nil, nil, nil)

	assert.Equal(t, []string{"err", "empty", "identity"}, tr.Strategies())
	assert.Equal(t, "你好", tr.DetectAndTranslate(context.Background(), "你好"))
	assert.Equal(t, 1, first.calls)
}

func TestNewTranslatorFromConfig(t *testing.T) {
	conf := &config.Configuration{}
	conf.ApplyDefaults()

	conf.Translate.Enabled = false
	assert.Equal(t, []string{"identity"}, NewTranslator(conf, nil, nil, nil).Strategies())

	conf.Translate.Enabled = true
	assert.Equal(t, []string{"mymemory", "libretranslate", "identity"}, NewTranslator(conf, nil, nil, nil).Strategies())
}

func TestLibreTranslateSendsAPIKey(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"translatedText":"hi"}`))
	}))
	defer srv.Close()

	out, err := NewLibreTranslate(srv.URL+"/", "secret", nil).Translate(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, "secret", got["api_key"])
	assert.Equal(t, "你好", got["q"])
}

func TestMyMemoryStatusAsString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "你好", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"Hello"},"responseStatus":"200"}`))
	}))
	defer srv.Close()

	out, err := NewMyMemory(srv.URL, nil).Translate(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
}

func TestMyMemoryQuotaFinished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":200,"quotaFinished":true}`))
	}))
	defer srv.Close()

	_, err := NewMyMemory(srv.URL, nil).Translate(context.Background(), "你好")
	assert.Error(t, err)
}
