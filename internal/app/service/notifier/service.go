// Package notifier owns the best-effort fan-out after a successful
// payment: in-app notification rows (inserted by the reconciler inside its
// transaction) and transactional emails (enqueued here, delivered by the
// consumer). Nothing in this package may fail a webhook.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gomonto/payments/internal/models"
	"github.com/gomonto/payments/internal/queue"
	"github.com/gomonto/payments/pkg/logctx"
)

type Service struct {
	pub *queue.Publisher
	log *zap.SugaredLogger
}

func NewService(pub *queue.Publisher, log *zap.SugaredLogger) *Service {
	return &Service{pub: pub, log: log}
}

// EnqueueReservationConfirmation queues the renter's confirmation email.
// Failures are logged and swallowed.
func (s *Service) EnqueueReservationConfirmation(ctx context.Context, txn *models.PaymentTransaction, r *models.Reservation) {
	job := queue.EmailJob{
		Kind:          queue.EmailKindReservationConfirmation,
		To:            r.RenterEmail,
		Reference:     txn.ProviderReference,
		AmountMinor:   txn.AmountMinor,
		Currency:      txn.Currency,
		ReservationID: r.ID,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		OccurredAt:    time.Now().UTC(),
	}
	s.enqueue(ctx, job)
}

// EnqueueCreditInvoice queues the loueur's credit invoice email.
func (s *Service) EnqueueCreditInvoice(ctx context.Context, txn *models.PaymentTransaction, p *models.CreditPurchase) {
	job := queue.EmailJob{
		Kind:             queue.EmailKindCreditInvoice,
		To:               p.LoueurEmail,
		Reference:        txn.ProviderReference,
		AmountMinor:      txn.AmountMinor,
		Currency:         txn.Currency,
		CreditPurchaseID: p.ID,
		Credits:          p.Credits,
		OccurredAt:       time.Now().UTC(),
	}
	s.enqueue(ctx, job)
}

func (s *Service) enqueue(ctx context.Context, job queue.EmailJob) {
	if job.To == "" {
		logctx.FromCtx(ctx, s.log).Infow("no recipient on record, skipping email", "kind", job.Kind, "reference", job.Reference)
		return
	}
	if err := s.pub.PublishEmailJob(ctx, job); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to enqueue email job", "kind", job.Kind, "reference", job.Reference, "err", err)
	}
}

// DepositPaidNotification builds the in-app row telling a vehicle owner the
// deposit arrived and the booking is now guaranteed.
func DepositPaidNotification(r *models.Reservation, txn *models.PaymentTransaction) *models.Notification {
	return &models.Notification{
		UserID: r.OwnerID,
		Type:   models.NotificationTypeDepositPaid,
		Title:  "Acompte reçu",
		Body: fmt.Sprintf("L'acompte de %d %s a été payé. La réservation du %s au %s est garantie.",
			txn.AmountMinor, txn.Currency, r.StartDate.Format("02/01/2006"), r.EndDate.Format("02/01/2006")),
		RelatedID: lo.ToPtr(r.ID),
	}
}

// CreditsPurchasedNotification builds the in-app row confirming a credit
// purchase to the loueur.
func CreditsPurchasedNotification(p *models.CreditPurchase, txn *models.PaymentTransaction) *models.Notification {
	return &models.Notification{
		UserID: p.LoueurID,
		Type:   models.NotificationTypeCreditsPurchased,
		Title:  "Crédits ajoutés",
		Body: fmt.Sprintf("Votre achat de %d crédits (%d %s) est confirmé.",
			p.Credits, txn.AmountMinor, txn.Currency),
		RelatedID: lo.ToPtr(p.ID),
	}
}
