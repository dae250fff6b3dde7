package vertex

import "github.com/google/wire"

var ProviderSet = wire.NewSet(
	NewFactory,
)
