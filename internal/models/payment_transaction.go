package models

import (
	"time"

	"github.com/gomonto/payments/pkg/types"

	"gorm.io/datatypes"
)

// PaymentTransaction records one payment attempt against a reservation or a
// credit purchase. Rows are created when a payment is initiated and mutated
// only by the reconciler; they are never deleted.
type PaymentTransaction struct {
	ID string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	// ReservationID links the deposit payment to a booking. Mutually
	// exclusive with CreditPurchaseID.
	ReservationID    *string `gorm:"column:reservation_id;type:uuid;index" json:"reservation_id"`
	CreditPurchaseID *string `gorm:"column:credit_purchase_id;type:uuid;index" json:"credit_purchase_id"`
	// AmountMinor is the amount in minor units. XOF has no minor unit, so
	// this equals the franc amount.
	AmountMinor   int64                 `gorm:"column:amount_minor;type:bigint;not null" json:"amount_minor"`
	Currency      string                `gorm:"column:currency;type:varchar(8);not null;default:'XOF'" json:"currency"`
	PaymentMethod types.PaymentProvider `gorm:"column:payment_method;type:varchar(32);not null" json:"payment_method"`
	Status        types.PaymentStatus   `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	// ProviderReference is the external transaction id, the join key every
	// webhook carries. Unique at the DB level, not just by convention.
	ProviderReference string `gorm:"column:provider_reference;type:varchar(128);not null;uniqueIndex:unique_provider_reference" json:"provider_reference"`
	// ProviderResponse holds the last raw payload the provider sent.
	ProviderResponse datatypes.JSON `gorm:"column:provider_response;type:jsonb" json:"provider_response"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (PaymentTransaction) TableName() string { return "payment_transaction" }

func (t *PaymentTransaction) IsTerminal() bool {
	if t == nil {
		return false
	}
	return t.Status == types.PaymentStatusCompleted || t.Status == types.PaymentStatusFailed
}
