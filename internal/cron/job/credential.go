package job

import (
	"context"
	"time"

	"imagen-gateway/internal/service"
	"imagen-gateway/internal/vertex"

	"go.uber.org/zap"
)

const checkTimeout = 30 * time.Second

// CredentialCheck 定期換取 access token，結果寫入 readiness
type CredentialCheck struct {
	logger        *zap.Logger
	factory       *vertex.Factory
	healthService *service.HealthService
}

func NewCredentialCheck(logger *zap.Logger, factory *vertex.Factory, healthService *service.HealthService) *CredentialCheck {
	return &CredentialCheck{
		logger:        logger,
		factory:       factory,
		healthService: healthService,
	}
}

func (job *CredentialCheck) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	_ = job.Check(ctx)
}

// Check 回傳錯誤，啟動時同步呼叫一次
func (job *CredentialCheck) Check(ctx context.Context) error {
	token, cred, err := job.factory.AccessToken(ctx)
	if err != nil {
		job.logger.Warn("[Cron] credential check failed", zap.Error(err))
		job.healthService.SetNotReady(err.Error())
		return err
	}
	job.logger.Debug("[Cron] credential check ok",
		zap.String("client_email", cred.ClientEmail),
		zap.String("token_prefix", token.Prefix(10)),
	)
	job.healthService.SetReady(true)
	return nil
}
