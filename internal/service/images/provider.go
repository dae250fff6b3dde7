package images

import "github.com/google/wire"

var ProviderSet = wire.NewSet(NewImagenService)
