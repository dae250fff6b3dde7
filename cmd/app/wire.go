//go:build wireinject
// +build wireinject

package main

import (
	"imagen-gateway/config"
	"imagen-gateway/internal/command"
	"imagen-gateway/internal/cron"
	"imagen-gateway/internal/database"
	"imagen-gateway/internal/handler"
	"imagen-gateway/internal/middleware"
	"imagen-gateway/internal/router"
	"imagen-gateway/internal/service"
	"imagen-gateway/internal/telemetry"
	"imagen-gateway/internal/vertex"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			telemetry.ProviderSet,
			database.ProviderSet,
			vertex.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			newApp,
		),
	)
}

// wireCommand init application.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(wire.Build(command.ProviderSet))
}
