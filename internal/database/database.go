package database

import (
	client "imagen-gateway/internal/database/client"
	fluentdRepo "imagen-gateway/internal/database/fluentd/repository"
	redisRepo "imagen-gateway/internal/database/redis/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有外部儲存 Client 與 repository
var ProviderSet = wire.NewSet(
	client.NewRedisClient,
	client.NewFluentdClient,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
