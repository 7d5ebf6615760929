package types

// PaymentProvider identifies the external payment platform that originated
// a transaction or a webhook.
type PaymentProvider string

const (
	PaymentProviderCinetPay    PaymentProvider = "cinetpay"
	PaymentProviderFedaPay     PaymentProvider = "fedapay"
	PaymentProviderKkiaPay     PaymentProvider = "kkiapay"
	PaymentProviderMobileMoney PaymentProvider = "mobile_money"
)

// PaymentStatus is the internal 3-valued status every provider vocabulary
// is normalized into. pending is the only non-terminal state.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentEvent is the common shape every provider payload is normalized
// into before reconciliation.
type PaymentEvent struct {
	Provider         PaymentProvider
	Reference        string
	Status           PaymentStatus
	AmountMinor      int64
	ReservationID    string
	CreditPurchaseID string
	// Raw is the payload as received, persisted as provider_response.
	Raw map[string]any
}
