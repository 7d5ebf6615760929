package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	cfgpkg "github.com/gomonto/payments/pkg/config"
)

// Publisher pushes email jobs onto the durable payment.emails queue. It
// dials per publish; webhook volume is low and a short-lived connection is
// simpler to keep correct than a shared channel under reconnects.
type Publisher struct {
	url string
	log *zap.SugaredLogger
}

func NewPublisher(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Publisher {
	return &Publisher{url: cfg.AMQP.URL, log: log}
}

// Enabled reports whether a broker is configured.
func (p *Publisher) Enabled() bool { return p != nil && p.url != "" }

// PublishEmailJob enqueues one job as a persistent message. Errors are
// returned so the caller can log and move on; publishing never panics.
func (p *Publisher) PublishEmailJob(ctx context.Context, job EmailJob) error {
	if !p.Enabled() {
		return fmt.Errorf("amqp not configured")
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so jobs survive broker restarts.
	if _, err := ch.QueueDeclare(EmailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", EmailQueueName, false, false, pub); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	p.log.Infow("email job published", "kind", job.Kind, "reference", job.Reference)
	return nil
}
