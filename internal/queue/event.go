// Package queue defines the message payloads and AMQP plumbing for
// best-effort side effects. Emails leave the webhook request path through
// here so a slow or failing mail provider never delays a provider callback.
package queue

import "time"

const EmailQueueName = "payment.emails"

type EmailKind string

const (
	EmailKindReservationConfirmation EmailKind = "reservation_confirmation"
	EmailKindCreditInvoice           EmailKind = "credit_invoice"
)

// EmailJob carries everything a consumer needs to render and send one
// transactional email without querying the primary database.
type EmailJob struct {
	Kind             EmailKind `json:"kind"`
	To               string    `json:"to"`
	Reference        string    `json:"reference"`
	AmountMinor      int64     `json:"amount_minor"`
	Currency         string    `json:"currency"`
	ReservationID    string    `json:"reservation_id,omitempty"`
	CreditPurchaseID string    `json:"credit_purchase_id,omitempty"`
	Credits          int64     `json:"credits,omitempty"`
	StartDate        string    `json:"start_date,omitempty"`
	EndDate          string    `json:"end_date,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
