package reconciler

import (
	"go.uber.org/fx"

	"github.com/gomonto/payments/internal/app/service/notifier"
)

// Module exposes the reconciler via Fx. The concrete service also backs the
// Reconciler interface used by the webhook layer, and notifier.Service
// backs the Notifier side-effect sink.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Reconciler { return s }),
	fx.Provide(func(s *notifier.Service) Notifier { return s }),
)
