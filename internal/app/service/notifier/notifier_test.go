package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gomonto/payments/internal/models"
	"github.com/gomonto/payments/internal/queue"
)

func TestDepositPaidNotification(t *testing.T) {
	r := &models.Reservation{
		ID:        "R1",
		OwnerID:   "owner-1",
		StartDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
	}
	txn := &models.PaymentTransaction{AmountMinor: 50000, Currency: "XOF"}

	n := DepositPaidNotification(r, txn)
	require.Equal(t, "owner-1", n.UserID)
	require.Equal(t, models.NotificationTypeDepositPaid, n.Type)
	require.Contains(t, n.Body, "50000 XOF")
	require.Contains(t, n.Body, "10/03/2026")
	require.Equal(t, "R1", *n.RelatedID)
}

func TestCreditsPurchasedNotification(t *testing.T) {
	p := &models.CreditPurchase{ID: "CP1", LoueurID: "loueur-1", Credits: 20}
	txn := &models.PaymentTransaction{AmountMinor: 10000, Currency: "XOF"}

	n := CreditsPurchasedNotification(p, txn)
	require.Equal(t, "loueur-1", n.UserID)
	require.Equal(t, models.NotificationTypeCreditsPurchased, n.Type)
	require.Contains(t, n.Body, "20 crédits")
}

func TestRenderEmail_ReservationConfirmation(t *testing.T) {
	email, err := RenderEmail(queue.EmailJob{
		Kind:        queue.EmailKindReservationConfirmation,
		To:          "renter@example.com",
		Reference:   "KKI123",
		AmountMinor: 50000,
		Currency:    "XOF",
		StartDate:   "2026-03-10",
		EndDate:     "2026-03-13",
	})
	require.NoError(t, err)
	require.Equal(t, "renter@example.com", email.To)
	require.Contains(t, email.HTML, "KKI123")
	require.Contains(t, email.HTML, "50000 XOF")
}

func TestRenderEmail_CreditInvoice(t *testing.T) {
	email, err := RenderEmail(queue.EmailJob{
		Kind:        queue.EmailKindCreditInvoice,
		To:          "loueur@example.com",
		Reference:   "FP-7",
		AmountMinor: 10000,
		Currency:    "XOF",
		Credits:     20,
	})
	require.NoError(t, err)
	require.Contains(t, email.Subject, "crédits")
	require.Contains(t, email.HTML, "20 crédits")
}

func TestRenderEmail_UnknownKind(t *testing.T) {
	_, err := RenderEmail(queue.EmailJob{Kind: "mystery"})
	require.Error(t, err)
}
