package notifier

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gomonto/payments/internal/platform/mailer"
	"github.com/gomonto/payments/internal/queue"
	cfgpkg "github.com/gomonto/payments/pkg/config"
)

// runEmailConsumer starts the email delivery loop under the fx lifecycle.
// Without a broker configured the consumer is simply not started; jobs are
// then dropped at publish time with a log line.
func runEmailConsumer(lc fx.Lifecycle, cfg *cfgpkg.Config, m *mailer.Client, log *zap.SugaredLogger) {
	if cfg.AMQP.URL == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go queue.StartEmailConsumer(ctx, cfg.AMQP.URL, func(ctx context.Context, job queue.EmailJob) error {
				email, err := RenderEmail(job)
				if err != nil {
					return err
				}
				return m.Send(ctx, email)
			}, log)
			log.Infow("email consumer started", "queue", queue.EmailQueueName)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(queue.NewPublisher),
	fx.Provide(mailer.NewClient),
	fx.Provide(NewService),
	fx.Invoke(runEmailConsumer),
)
