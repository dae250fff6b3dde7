package cron

import (
	"context"

	"imagen-gateway/config"
	"imagen-gateway/internal/cron/job"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron, job.NewCredentialCheck)

type Cron struct {
	conf            *config.Configuration
	logger          *zap.Logger
	server          *cron.Cron
	credentialCheck *job.CredentialCheck
}

// NewCron .
func NewCron(conf *config.Configuration, logger *zap.Logger, credentialCheck *job.CredentialCheck) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	return &Cron{
		conf:            conf,
		logger:          logger,
		server:          server,
		credentialCheck: credentialCheck,
	}
}

func (c *Cron) Run() error {
	if _, err := c.server.AddJob(c.conf.Cron.CredentialCheck, c.credentialCheck); err != nil {
		return err
	}
	// 啟動時先檢查一次，readiness 不必等第一個排程
	go c.credentialCheck.Run()

	c.server.Start()
	return nil
}

func (c *Cron) Stop(ctx context.Context) error {
	stopped := c.server.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
