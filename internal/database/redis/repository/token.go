package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	client "imagen-gateway/internal/database/client"
	"imagen-gateway/internal/telemetry"
	"imagen-gateway/internal/vertex"

	"github.com/redis/go-redis/v9"
)

// TokenRepository 多個 instance 共用 access token
type TokenRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
	prefix string
}

func NewTokenRepository(trace *telemetry.Trace, conf *config.Configuration, client *client.RedisClient) *TokenRepository {
	return &TokenRepository{trace: trace, client: client.Client(), prefix: keyPrefix(conf)}
}

func (repository *TokenRepository) Enabled() bool {
	return repository != nil && repository.client != nil
}

func (repository *TokenRepository) Get(ctx context.Context, fingerprint string) (tok vertex.CachedToken, ok bool, returnedError error) {
	ctx, _, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()

	key := repository.buildKey(fingerprint)
	pipe := repository.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return vertex.CachedToken{}, false, err
	}
	value, err := getCmd.Result()
	if errors.Is(err, redis.Nil) {
		return vertex.CachedToken{}, false, nil
	}
	if err != nil {
		return vertex.CachedToken{}, false, err
	}
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return vertex.CachedToken{}, false, nil
	}
	// 存入時已扣掉 skew，這裡加回來還原真正的到期時間
	tok = vertex.CachedToken{Token: vertex.AccessToken(value), ExpiresAt: time.Now().Add(ttl + vertex.ExpirySkew)}
	return tok, tok.Fresh(time.Now()), nil
}

func (repository *TokenRepository) Set(ctx context.Context, fingerprint string, tok vertex.CachedToken) (returnedError error) {
	ctx, _, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()

	ttl := time.Until(tok.ExpiresAt) - vertex.ExpirySkew
	if tok.Token == "" || ttl <= time.Second {
		return nil
	}
	return repository.client.Set(ctx, repository.buildKey(fingerprint), string(tok.Token), ttl).Err()
}

func (repository *TokenRepository) Invalidate(ctx context.Context, fingerprint string) (returnedError error) {
	ctx, _, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()
	return repository.client.Del(ctx, repository.buildKey(fingerprint)).Err()
}

func (repository *TokenRepository) buildKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s:%s", repository.prefix, core.RedisKeyAccessToken, fingerprint)
}

// NewTokenCache 依 GOOGLE__TOKEN_CACHE 選擇快取；none 回傳 nil
func NewTokenCache(conf *config.Configuration, tokens *TokenRepository) vertex.TokenCache {
	switch conf.Google.TokenCache {
	case config.TokenCacheMemory:
		return vertex.NewMemoryTokenCache()
	case config.TokenCacheRedis:
		if tokens.Enabled() {
			return tokens
		}
		// Redis 未設定時退回記憶體快取
		return vertex.NewMemoryTokenCache()
	default:
		return nil
	}
}
