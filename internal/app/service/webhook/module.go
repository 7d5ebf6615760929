package webhook

import (
	"context"

	"go.uber.org/fx"

	"github.com/gomonto/payments/internal/platform/cache"
	"github.com/gomonto/payments/internal/platform/cinetpay"
)

func registerGuardClose(lc fx.Lifecycle, guard *cache.ReplayGuard) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return guard.Close() },
	})
}

var Module = fx.Options(
	fx.Provide(cinetpay.NewClient),
	fx.Provide(cache.NewReplayGuard),
	fx.Provide(NewHandler),
	fx.Invoke(registerGuardClose),
)
