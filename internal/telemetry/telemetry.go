package telemetry

import (
	"context"
	"time"

	"imagen-gateway/config"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideTrace, NewMetric)

// ProvideTrace cleanup 時 flush 尚未送出的 span
func ProvideTrace(conf *config.Configuration) (*Trace, func(), error) {
	t, err := NewTrace(conf)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.Shutdown(ctx)
	}
	return t, cleanup, nil
}
