package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gomonto/payments/internal/app/service/notifier"
	"github.com/gomonto/payments/internal/models"
	"github.com/gomonto/payments/internal/platform/cache"
	"github.com/gomonto/payments/pkg/logctx"
	"github.com/gomonto/payments/pkg/tool"
	"github.com/gomonto/payments/pkg/types"
)

var (
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// Result reports what a reconciliation did.
type Result struct {
	Transaction *models.PaymentTransaction `json:"transaction"`
	Status      types.PaymentStatus        `json:"status"`
	// Applied is true when this call performed the completed-transition
	// side effects (reservation guarantee, availability, notifications).
	Applied bool `json:"applied"`
	// AlreadyApplied is true when the webhook was a replay of an already
	// completed transaction.
	AlreadyApplied bool `json:"already_applied"`
}

// Reconciler applies a normalized provider event to local state.
type Reconciler interface {
	Reconcile(ctx context.Context, ev *types.PaymentEvent) (*Result, error)
}

// Notifier is the post-commit side-effect sink. Satisfied by
// notifier.Service in production.
type Notifier interface {
	EnqueueReservationConfirmation(ctx context.Context, txn *models.PaymentTransaction, r *models.Reservation)
	EnqueueCreditInvoice(ctx context.Context, txn *models.PaymentTransaction, p *models.CreditPurchase)
}

type Service struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	notif Notifier
	guard *cache.ReplayGuard
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, notif Notifier, guard *cache.ReplayGuard) *Service {
	return &Service{db: db, log: log, notif: notif, guard: guard}
}

// Reconcile looks up the pending transaction by provider reference and
// applies the event status. The completed transition is guarded by a
// conditional update so provider retries and concurrent duplicates run the
// side effects at most once.
func (s *Service) Reconcile(ctx context.Context, ev *types.PaymentEvent) (*Result, error) {
	log := logctx.FromCtx(ctx, s.log)

	// Fast path for replays of completed payments. Redis only short-cuts
	// the DB round trip; the conditional update below is authoritative.
	if ev.Status == types.PaymentStatusCompleted && s.guard.Seen(ctx, ev.Reference) {
		var txn models.PaymentTransaction
		if err := s.db.WithContext(ctx).Where("provider_reference = ?", ev.Reference).First(&txn).Error; err == nil {
			log.Infow("webhook replay short-circuited", "reference", ev.Reference)
			return &Result{Transaction: &txn, Status: txn.Status, AlreadyApplied: true}, nil
		}
	}

	var txn models.PaymentTransaction
	if err := s.db.WithContext(ctx).Where("provider_reference = ?", ev.Reference).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, ev.Reference)
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}

	rawBytes, err := json.Marshal(ev.Raw)
	if err != nil {
		rawBytes = []byte("{}")
	}

	switch ev.Status {
	case types.PaymentStatusCompleted:
		return s.applyCompleted(ctx, &txn, ev, rawBytes)
	case types.PaymentStatusFailed:
		return s.applyFailed(ctx, &txn, rawBytes)
	default:
		// Pending and unrecognized statuses only refresh the stored payload,
		// and only while the transaction is still pending: a late
		// out-of-order pending delivery must not clobber the payload that
		// settled the payment.
		if err := s.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
			Where("provider_reference = ? AND status = ?", ev.Reference, types.PaymentStatusPending).
			Update("provider_response", datatypes.JSON(rawBytes)).Error; err != nil {
			return nil, fmt.Errorf("failed to store provider response: %w", err)
		}
		log.Infow("webhook pending, no state change", "reference", ev.Reference, "provider", ev.Provider)
		return &Result{Transaction: &txn, Status: txn.Status}, nil
	}
}

func (s *Service) applyCompleted(ctx context.Context, txn *models.PaymentTransaction, ev *types.PaymentEvent, raw []byte) (*Result, error) {
	log := logctx.FromCtx(ctx, s.log)

	var (
		applied     bool
		reservation *models.Reservation
		purchase    *models.CreditPurchase
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":            types.PaymentStatusCompleted,
			"provider_response": datatypes.JSON(raw),
		}
		// Adopt related ids the provider echoed back when the transaction
		// row was created without them.
		if txn.ReservationID == nil && ev.ReservationID != "" {
			updates["reservation_id"] = ev.ReservationID
		}
		if txn.CreditPurchaseID == nil && ev.CreditPurchaseID != "" {
			updates["credit_purchase_id"] = ev.CreditPurchaseID
		}

		res := tx.Model(&models.PaymentTransaction{}).
			Where("provider_reference = ? AND status <> ?", ev.Reference, types.PaymentStatusCompleted).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to complete transaction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Replay: another delivery already completed this transaction.
			return nil
		}
		applied = true

		if err := tx.Where("provider_reference = ?", ev.Reference).First(txn).Error; err != nil {
			return fmt.Errorf("failed to reload transaction: %w", err)
		}

		if txn.ReservationID != nil {
			r, err := s.guaranteeReservation(ctx, tx, txn)
			if err != nil {
				return err
			}
			reservation = r
		}
		if txn.CreditPurchaseID != nil {
			p, err := s.completeCreditPurchase(ctx, tx, txn)
			if err != nil {
				return err
			}
			purchase = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		// The row is completed even though this delivery didn't complete
		// it; the echoed struct must say so too.
		txn.Status = types.PaymentStatusCompleted
		log.Infow("completed webhook replayed, side effects skipped", "reference", ev.Reference)
		s.guard.Mark(ctx, ev.Reference)
		return &Result{Transaction: txn, Status: types.PaymentStatusCompleted, AlreadyApplied: true}, nil
	}

	s.guard.Mark(ctx, ev.Reference)

	// Best-effort side effects after commit; never fail the webhook.
	if reservation != nil {
		s.notif.EnqueueReservationConfirmation(ctx, txn, reservation)
	}
	if purchase != nil {
		s.notif.EnqueueCreditInvoice(ctx, txn, purchase)
	}

	log.Infow("payment completed",
		"reference", ev.Reference,
		"provider", ev.Provider,
		"amount_minor", txn.AmountMinor,
	)
	return &Result{Transaction: txn, Status: types.PaymentStatusCompleted, Applied: true}, nil
}

func (s *Service) applyFailed(ctx context.Context, txn *models.PaymentTransaction, raw []byte) (*Result, error) {
	// A failure only marks the transaction; the reservation stays pending
	// so the renter can retry payment.
	res := s.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("provider_reference = ? AND status = ?", txn.ProviderReference, types.PaymentStatusPending).
		Updates(map[string]any{
			"status":            types.PaymentStatusFailed,
			"provider_response": datatypes.JSON(raw),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark transaction failed: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		txn.Status = types.PaymentStatusFailed
	}
	logctx.FromCtx(ctx, s.log).Infow("payment failed", "reference", txn.ProviderReference)
	return &Result{Transaction: txn, Status: txn.Status, Applied: res.RowsAffected > 0}, nil
}

// guaranteeReservation flips the reservation into the guaranteed state,
// blocks the vehicle for the booked range, and writes the owner's in-app
// notification. Runs inside the completed-transition DB transaction.
func (s *Service) guaranteeReservation(ctx context.Context, tx *gorm.DB, txn *models.PaymentTransaction) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := tx.Where("id = ?", *txn.ReservationID).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrReservationNotFound, *txn.ReservationID)
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}

	now := time.Now()
	if err := tx.Model(&reservation).Updates(map[string]any{
		"status":            models.ReservationStatusGuaranteed,
		"is_guaranteed":     true,
		"deposit_paid":      true,
		"payment_date":      now,
		"payment_reference": txn.ProviderReference,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to guarantee reservation: %w", err)
	}

	blocks := availabilityBlocks(&reservation)
	if len(blocks) > 0 {
		// vehicle+date unique index plus DoNothing keeps replays and
		// concurrent duplicates from inserting twice.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&blocks).Error; err != nil {
			return nil, fmt.Errorf("failed to block availability: %w", err)
		}
	}

	n := notifier.DepositPaidNotification(&reservation, txn)
	n.ID = tool.GenerateUUIDV7()
	if err := tx.Create(n).Error; err != nil {
		return nil, fmt.Errorf("failed to create owner notification: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("reservation guaranteed",
		"reservation_id", reservation.ID,
		"vehicle_id", reservation.VehicleID,
		"days_blocked", len(blocks),
	)
	return &reservation, nil
}

func (s *Service) completeCreditPurchase(ctx context.Context, tx *gorm.DB, txn *models.PaymentTransaction) (*models.CreditPurchase, error) {
	var purchase models.CreditPurchase
	if err := tx.Where("id = ?", *txn.CreditPurchaseID).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("credit purchase not found: %s", *txn.CreditPurchaseID)
		}
		return nil, fmt.Errorf("failed to load credit purchase: %w", err)
	}

	if err := tx.Model(&purchase).Update("status", models.CreditPurchaseStatusCompleted).Error; err != nil {
		return nil, fmt.Errorf("failed to complete credit purchase: %w", err)
	}

	n := notifier.CreditsPurchasedNotification(&purchase, txn)
	n.ID = tool.GenerateUUIDV7()
	if err := tx.Create(n).Error; err != nil {
		return nil, fmt.Errorf("failed to create purchaser notification: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("credit purchase completed",
		"credit_purchase_id", purchase.ID,
		"credits", purchase.Credits,
	)
	return &purchase, nil
}

// availabilityBlocks expands a reservation into one blocking row per booked
// day, end date inclusive.
func availabilityBlocks(r *models.Reservation) []*models.VehicleAvailability {
	start := r.StartDate.Truncate(24 * time.Hour)
	end := r.EndDate.Truncate(24 * time.Hour)
	if end.Before(start) {
		return nil
	}
	var blocks []*models.VehicleAvailability
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		blocks = append(blocks, &models.VehicleAvailability{
			ID:            tool.GenerateUUIDV7(),
			VehicleID:     r.VehicleID,
			Date:          d,
			ReservationID: r.ID,
		})
	}
	return blocks
}
