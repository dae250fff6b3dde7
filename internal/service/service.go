package service

import (
	"imagen-gateway/internal/service/images"
	"imagen-gateway/internal/service/translate"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewHealthService,
	translate.ProviderSet,
	images.ProviderSet,
)
