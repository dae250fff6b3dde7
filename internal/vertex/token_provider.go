package vertex

import (
	"context"
	"time"

	"imagen-gateway/internal/core"
	"imagen-gateway/internal/telemetry"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TokenProvider 取得 access token；cache 為 nil 時每次都重新簽發
type TokenProvider struct {
	fetcher TokenFetcher
	cache   TokenCache
	group   singleflight.Group
	logger  *zap.Logger
	trace   *telemetry.Trace
	metric  *telemetry.Metric
}

func NewTokenProvider(fetcher TokenFetcher, cache TokenCache, logger *zap.Logger, trace *telemetry.Trace, metric *telemetry.Metric) *TokenProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenProvider{fetcher: fetcher, cache: cache, logger: logger, trace: trace, metric: metric}
}

func (p *TokenProvider) Token(ctx context.Context, cred *ServiceAccountCredential) (AccessToken, error) {
	ctx, span, end := p.trace.WithSpan(ctx, string(core.SpanFetchAccessToken))
	meta := core.TraceTokenMeta{Cache: "none"}

	if p.cache == nil {
		tok, err := p.fetch(ctx, cred, &meta)
		p.trace.ApplyTraceAttributes(span, meta)
		end(err)
		return tok, err
	}

	meta.Cache = "enabled"
	key := cred.Fingerprint()
	if cached, ok, err := p.cache.Get(ctx, key); err != nil {
		p.logger.Warn("[Token] cache get failed", zap.Error(err))
	} else if ok {
		meta.CacheHit = true
		meta.ExpiresIn = int64(time.Until(cached.ExpiresAt).Seconds())
		p.trace.ApplyTraceAttributes(span, meta)
		p.metric.IncTokenFetch("cache", "hit")
		end(nil)
		return cached.Token, nil
	}

	// 同一把憑證同時只簽發一次；leader 斷線不能拖垮其他等待者
	v, err, _ := p.group.Do(key, func() (any, error) {
		res, err := p.fetcher.Fetch(context.WithoutCancel(ctx), cred)
		if err != nil {
			return nil, err
		}
		tok, err := res.Value()
		if err != nil {
			return nil, err
		}
		meta.Shape = res.Shape()
		if exp := res.Expiry(); !exp.IsZero() {
			meta.ExpiresIn = int64(time.Until(exp).Seconds())
			if err := p.cache.Set(ctx, key, CachedToken{Token: tok, ExpiresAt: exp}); err != nil {
				p.logger.Warn("[Token] cache set failed", zap.Error(err))
			}
		}
		return tok, nil
	})
	p.trace.ApplyTraceAttributes(span, meta)
	if err != nil {
		p.metric.IncTokenFetch("fetch", "error")
		end(err)
		return "", err
	}
	p.metric.IncTokenFetch("fetch", "ok")
	end(nil)
	return v.(AccessToken), nil
}

// Invalidate 上游回 401 時清掉快取
func (p *TokenProvider) Invalidate(ctx context.Context, cred *ServiceAccountCredential) {
	if p.cache == nil || cred == nil {
		return
	}
	if err := p.cache.Invalidate(ctx, cred.Fingerprint()); err != nil {
		p.logger.Warn("[Token] cache invalidate failed", zap.Error(err))
	}
}

func (p *TokenProvider) fetch(ctx context.Context, cred *ServiceAccountCredential, meta *core.TraceTokenMeta) (AccessToken, error) {
	res, err := p.fetcher.Fetch(ctx, cred)
	if err != nil {
		p.metric.IncTokenFetch("fetch", "error")
		return "", err
	}
	meta.Shape = res.Shape()
	tok, err := res.Value()
	if err != nil {
		p.metric.IncTokenFetch("fetch", "error")
		return "", err
	}
	p.metric.IncTokenFetch("fetch", "ok")
	return tok, nil
}
