package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentWebhookLogStatus string

const (
	PaymentWebhookLogStatusReceived     PaymentWebhookLogStatus = "received"
	PaymentWebhookLogStatusHandled      PaymentWebhookLogStatus = "handled"
	PaymentWebhookLogStatusHandleFailed PaymentWebhookLogStatus = "handle_failed"
)

// PaymentWebhookLog is the audit trail of every webhook the service saw,
// written around reconciliation regardless of outcome.
type PaymentWebhookLog struct {
	ID                string                  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Provider          string                  `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	ProviderReference string                  `gorm:"column:provider_reference;type:varchar(128);index" json:"provider_reference"`
	TraceID           string                  `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	Payload           datatypes.JSON          `gorm:"column:payload;type:jsonb" json:"payload"`
	Result            *datatypes.JSON         `gorm:"column:result;type:jsonb" json:"result"`
	Status            PaymentWebhookLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

func (PaymentWebhookLog) TableName() string { return "payment_webhook_log" }
