package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gomonto/payments/internal/models"
	"github.com/gomonto/payments/pkg/types"
)

type notifierSpy struct {
	reservations int
	invoices     int
}

func (s *notifierSpy) EnqueueReservationConfirmation(_ context.Context, _ *models.PaymentTransaction, _ *models.Reservation) {
	s.reservations++
}

func (s *notifierSpy) EnqueueCreditInvoice(_ context.Context, _ *models.PaymentTransaction, _ *models.CreditPurchase) {
	s.invoices++
}

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, *notifierSpy) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	spy := &notifierSpy{}
	return NewService(db, zap.NewNop().Sugar(), spy, nil), mock, spy
}

func txnRows(id, reference string, status types.PaymentStatus, reservationID any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reservation_id", "credit_purchase_id",
		"amount_minor", "currency", "payment_method",
		"status", "provider_reference",
	}).AddRow(id, reservationID, nil, int64(15000), "XOF", "kkiapay", string(status), reference)
}

func reservationRows(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "vehicle_id", "owner_id", "renter_id", "renter_email",
		"start_date", "end_date", "status", "is_guaranteed", "deposit_paid",
	}).AddRow(id, "V1", "O1", "C1", "renter@example.com",
		date(2026, time.April, 3), date(2026, time.April, 4),
		string(models.ReservationStatusConfirmed), false, false)
}

func completedEvent(reference string) *types.PaymentEvent {
	return &types.PaymentEvent{
		Provider:  types.PaymentProviderKkiaPay,
		Reference: reference,
		Status:    types.PaymentStatusCompleted,
		Raw:       map[string]any{"transactionId": reference, "status": "SUCCESS"},
	}
}

func TestReconcile_CompletedGuaranteesReservation(t *testing.T) {
	svc, mock, spy := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "payment_transaction" WHERE provider_reference = \$1`).
		WillReturnRows(txnRows("T1", "PAY-1", types.PaymentStatusPending, "R1"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payment_transaction" SET .*WHERE provider_reference = \$\d+ AND status <> \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "payment_transaction" WHERE provider_reference = \$1`).
		WillReturnRows(txnRows("T1", "PAY-1", types.PaymentStatusCompleted, "R1"))
	mock.ExpectQuery(`SELECT \* FROM "reservation" WHERE id = \$1`).
		WillReturnRows(reservationRows("R1"))
	mock.ExpectExec(`UPDATE "reservation" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Two booked days, one availability row each.
	mock.ExpectExec(`INSERT INTO "vehicle_availability" .*ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "notification"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Reconcile(context.Background(), completedEvent("PAY-1"))
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.False(t, res.AlreadyApplied)
	require.Equal(t, types.PaymentStatusCompleted, res.Status)
	require.Equal(t, 1, spy.reservations)
	require.Zero(t, spy.invoices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_CompletedReplaySkipsSideEffects(t *testing.T) {
	svc, mock, spy := newMockService(t)

	// The row was settled by an earlier delivery, so the guarded update
	// matches nothing. No reservation reads, no availability or
	// notification inserts may follow.
	mock.ExpectQuery(`SELECT \* FROM "payment_transaction" WHERE provider_reference = \$1`).
		WillReturnRows(txnRows("T1", "PAY-1", types.PaymentStatusCompleted, "R1"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payment_transaction" SET .*WHERE provider_reference = \$\d+ AND status <> \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := svc.Reconcile(context.Background(), completedEvent("PAY-1"))
	require.NoError(t, err)
	require.True(t, res.AlreadyApplied)
	require.False(t, res.Applied)
	require.Equal(t, types.PaymentStatusCompleted, res.Status)
	require.Zero(t, spy.reservations)
	require.Zero(t, spy.invoices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_ConcurrentDuplicateEchoesCompleted(t *testing.T) {
	svc, mock, spy := newMockService(t)

	// The duplicate loads the row while it still reads pending, then loses
	// the conditional update to a concurrent delivery. The echoed
	// transaction must still report completed.
	mock.ExpectQuery(`SELECT \* FROM "payment_transaction" WHERE provider_reference = \$1`).
		WillReturnRows(txnRows("T1", "PAY-1", types.PaymentStatusPending, "R1"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payment_transaction" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := svc.Reconcile(context.Background(), completedEvent("PAY-1"))
	require.NoError(t, err)
	require.True(t, res.AlreadyApplied)
	require.Equal(t, types.PaymentStatusCompleted, res.Transaction.Status)
	require.Zero(t, spy.reservations)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_FailedLeavesReservationAlone(t *testing.T) {
	svc, mock, spy := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "payment_transaction" WHERE provider_reference = \$1`).
		WillReturnRows(txnRows("T1", "PAY-2", types.PaymentStatusPending, "R1"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payment_transaction" SET .*WHERE provider_reference = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Reconcile(context.Background(), &types.PaymentEvent{
		Provider:  types.PaymentProviderFedaPay,
		Reference: "PAY-2",
		Status:    types.PaymentStatusFailed,
		Raw:       map[string]any{"status": "declined"},
	})
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.Equal(t, types.PaymentStatusFailed, res.Status)
	require.Zero(t, spy.reservations)
	require.Zero(t, spy.invoices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_LatePendingKeepsCompletedPayload(t *testing.T) {
	svc, mock, spy := newMockService(t)

	// An out-of-order pending delivery after settlement. The payload
	// refresh is conditioned on the row still being pending, so it matches
	// nothing and the completed state is untouched.
	mock.ExpectQuery(`SELECT \* FROM "payment_transaction" WHERE provider_reference = \$1`).
		WillReturnRows(txnRows("T1", "PAY-1", types.PaymentStatusCompleted, "R1"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payment_transaction" SET .*WHERE provider_reference = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := svc.Reconcile(context.Background(), &types.PaymentEvent{
		Provider:  types.PaymentProviderKkiaPay,
		Reference: "PAY-1",
		Status:    types.PaymentStatusPending,
		Raw:       map[string]any{"status": "PENDING"},
	})
	require.NoError(t, err)
	require.False(t, res.Applied)
	require.False(t, res.AlreadyApplied)
	require.Equal(t, types.PaymentStatusCompleted, res.Status)
	require.Zero(t, spy.reservations)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_UnknownReference(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "payment_transaction" WHERE provider_reference = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Reconcile(context.Background(), completedEvent("NOPE"))
	require.ErrorIs(t, err, ErrTransactionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
