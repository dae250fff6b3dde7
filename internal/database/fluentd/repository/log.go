package repository

import (
	"context"
	"encoding/json"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/database/client"
	"imagen-gateway/internal/database/fluentd/model"
)

const loggedAtLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 發送 Request / Response / Usage log 到 Fluentd
type LogRepository struct {
	poster  client.Poster
	version string
	now     func() time.Time
}

func NewLogRepository(config *config.Configuration, poster client.Poster) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	if poster == nil {
		poster = &client.NoopClient{}
	}
	return &LogRepository{poster: poster, version: version, now: time.Now}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = repository.stamp()
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = repository.stamp()
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

func (repository *LogRepository) LogImageUsage(ctx context.Context, usage model.ImageUsageLog) error {
	if usage.LoggedAt == "" {
		usage.LoggedAt = repository.stamp()
	}
	if usage.Version == "" {
		usage.Version = repository.version
	}
	return repository.post(ctx, core.FluentdUsage, usage)
}

func (repository *LogRepository) Stamp() string { return repository.stamp() }

func (repository *LogRepository) stamp() string {
	return repository.now().UTC().Format(loggedAtLayout)
}

// fluent-logger 以 msgpack 編碼 map 最穩定，先轉成 map[string]any
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, record any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var message map[string]any
	if err := json.Unmarshal(b, &message); err != nil {
		return err
	}
	return repository.poster.Post(ctx, string(tag), message)
}
