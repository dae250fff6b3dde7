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

	"github.com/redis/go-redis/v9"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RateLimiterRepository 固定視窗計數，value 為剩餘次數
type RateLimiterRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
	prefix string
}

func NewRateLimiterRepository(trace *telemetry.Trace, conf *config.Configuration, client *client.RedisClient) *RateLimiterRepository {
	return &RateLimiterRepository{trace: trace, client: client.Client(), prefix: keyPrefix(conf)}
}

// Enabled Redis 未設定時不限流
func (repository *RateLimiterRepository) Enabled() bool {
	return repository != nil && repository.client != nil
}

// Consume 消耗一次配額；第一次呼叫時初始化視窗
func (repository *RateLimiterRepository) Consume(
	ctx context.Context,
	subject string,
	windowSeconds int64,
	limitCount int,
) (remainingCount int, timeToLiveSeconds int64, returnedError error) {
	ctx, span, endSpan := repository.trace.WithSpan(ctx)
	meta := core.TraceRateLimitMeta{Subject: subject, Limit: limitCount, WindowSec: windowSeconds}
	defer func() {
		meta.Remaining, meta.TTL = remainingCount, timeToLiveSeconds
		meta.Blocked = errors.Is(returnedError, ErrRateLimitExceeded)
		repository.trace.ApplyTraceAttributes(span, meta)
		if meta.Blocked {
			endSpan(nil)
			return
		}
		endSpan(returnedError)
	}()

	redisKey := repository.buildKey(subject)
	expiration := time.Duration(windowSeconds) * time.Second

	// SETNX key (limit-1) EX window
	wasSet, err := repository.client.SetNX(ctx, redisKey, limitCount-1, expiration).Result()
	if err != nil {
		return 0, 0, err
	}
	if wasSet {
		if limitCount-1 < 0 {
			return 0, windowSeconds, ErrRateLimitExceeded
		}
		return limitCount - 1, windowSeconds, nil
	}

	newValue, err := repository.client.Decr(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl, _ := repository.client.TTL(ctx, redisKey).Result(); ttl > 0 {
		timeToLiveSeconds = int64(ttl.Seconds())
	} else {
		// key 沒有 TTL（例如 DECR 搶在 SETNX 之前建立）時補上
		_ = repository.client.Expire(ctx, redisKey, expiration).Err()
		timeToLiveSeconds = windowSeconds
	}

	if newValue < 0 {
		return 0, timeToLiveSeconds, ErrRateLimitExceeded
	}
	return int(newValue), timeToLiveSeconds, nil
}

// Reset 清除使用者目前視窗
func (repository *RateLimiterRepository) Reset(ctx context.Context, subject string) (returnedError error) {
	ctx, _, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()
	return repository.client.Del(ctx, repository.buildKey(subject)).Err()
}

func (repository *RateLimiterRepository) buildKey(subject string) string {
	return fmt.Sprintf("%s:%s:%s", repository.prefix, core.RedisKeyRateLimit, subject)
}

func keyPrefix(conf *config.Configuration) string {
	if conf != nil && conf.Redis.KeyPrefix != "" {
		return conf.Redis.KeyPrefix
	}
	return string(core.RedisKeyServerName)
}
