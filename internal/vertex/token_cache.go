package vertex

import (
	"context"
	"sync"
	"time"
)

// 提前視為過期，避免 token 在送出途中失效
const ExpirySkew = 60 * time.Second

type CachedToken struct {
	Token     AccessToken
	ExpiresAt time.Time
}

// Fresh 沒有到期時間的 token 不快取
func (t CachedToken) Fresh(now time.Time) bool {
	return t.Token != "" && !t.ExpiresAt.IsZero() && now.Add(ExpirySkew).Before(t.ExpiresAt)
}

// TokenCache 以憑證 fingerprint 為 key
type TokenCache interface {
	Get(ctx context.Context, key string) (CachedToken, bool, error)
	Set(ctx context.Context, key string, tok CachedToken) error
	Invalidate(ctx context.Context, key string) error
}

type MemoryTokenCache struct {
	mu    sync.RWMutex
	items map[string]CachedToken
	now   func() time.Time
}

func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{items: map[string]CachedToken{}, now: time.Now}
}

func (m *MemoryTokenCache) Get(_ context.Context, key string) (CachedToken, bool, error) {
	m.mu.RLock()
	tok, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return CachedToken{}, false, nil
	}
	if !tok.Fresh(m.now()) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return CachedToken{}, false, nil
	}
	return tok, true, nil
}

func (m *MemoryTokenCache) Set(_ context.Context, key string, tok CachedToken) error {
	if !tok.Fresh(m.now()) {
		return nil
	}
	m.mu.Lock()
	m.items[key] = tok
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenCache) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}
