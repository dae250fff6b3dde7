package client

import (
	"context"
	"time"

	"imagen-gateway/config"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
)

// Poster 方便測試替換
type Poster interface {
	Post(ctx context.Context, tag string, message any) error
	Close() error
}

type FluentdClient struct {
	client *fluent.Fluent
}

// NewFluentdClient 未設定 FLUENTD__HOST 時回傳 NoopClient
func NewFluentdClient(logger *zap.Logger, config *config.Configuration) (Poster, func(), error) {
	if config.Fluentd.Host == "" {
		logger.Info("Fluentd disabled (FLUENTD__HOST not set)")
		return &NoopClient{}, func() {}, nil
	}
	prefix := config.App.Name
	if config.Fluentd.TagPrefix != "" {
		prefix = config.Fluentd.TagPrefix
	}
	var timeout time.Duration
	if config.Fluentd.Timeout > 0 {
		timeout = time.Duration(config.Fluentd.Timeout) * time.Millisecond
	}

	// Async：Fluentd 暫時不可用不影響啟動與請求
	f, err := fluent.New(fluent.Config{
		FluentHost: config.Fluentd.Host,
		FluentPort: config.Fluentd.Port,
		Timeout:    timeout,
		TagPrefix:  prefix,
		Async:      true,
	})
	if err != nil {
		logger.Error("failed to create Fluentd client", zap.Error(err))
		return nil, nil, err
	}
	c := &FluentdClient{client: f}
	cleanup := func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close Fluentd client", zap.Error(err))
		}
	}
	return c, cleanup, nil
}

func (c *FluentdClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Post tag 會自動加上 TagPrefix
func (c *FluentdClient) Post(_ context.Context, tag string, message any) error {
	return c.client.Post(tag, message)
}

type NoopClient struct{}

func (n *NoopClient) Post(context.Context, string, any) error { return nil }
func (n *NoopClient) Close() error                            { return nil }
