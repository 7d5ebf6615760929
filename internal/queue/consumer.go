package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EmailHandler processes one dequeued job. A returned error rejects the
// message without requeue, so a poisoned job cannot loop forever.
type EmailHandler func(ctx context.Context, job EmailJob) error

// StartEmailConsumer consumes payment.emails until ctx is cancelled,
// reconnecting with exponential backoff when the broker drops.
func StartEmailConsumer(ctx context.Context, url string, handle EmailHandler, log *zap.SugaredLogger) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warnw("email consumer dial failed", "err", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(ctx, conn, handle, log); err != nil {
			log.Warnw("email consumer loop ended", "err", err)
		}
		_ = conn.Close()
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle EmailHandler, log *zap.SugaredLogger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Warnw("email consumer set QoS failed", "err", err)
	}

	if _, err := ch.QueueDeclare(EmailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(EmailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			var job EmailJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Errorw("email job unmarshal failed", "err", err)
				_ = d.Nack(false, false)
				continue
			}
			if err := handle(ctx, job); err != nil {
				log.Errorw("email job handling failed", "kind", job.Kind, "reference", job.Reference, "err", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
