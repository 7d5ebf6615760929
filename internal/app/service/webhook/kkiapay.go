package webhook

import (
	"fmt"

	"github.com/gomonto/payments/pkg/types"
)

// KkiaPayParser handles KkiaPay callbacks, keyed by transactionId and using
// the upper-case SUCCESS / FAILED vocabulary. Related entity ids arrive in
// the "data" container KkiaPay echoes back from payment initiation.
type KkiaPayParser struct{}

func (KkiaPayParser) Provider() types.PaymentProvider { return types.PaymentProviderKkiaPay }

func (KkiaPayParser) Parse(payload map[string]any) (*types.PaymentEvent, error) {
	reference, ok := firstString(payload, "transactionId", "transaction_id")
	if !ok {
		return nil, fmt.Errorf("%w: kkiapay payload has no transactionId", ErrMalformedPayload)
	}
	status, _ := firstString(payload, "status")

	resID, cpID := relatedIDs(payload, "data")
	return &types.PaymentEvent{
		Provider:         types.PaymentProviderKkiaPay,
		Reference:        reference,
		Status:           mapKkiaPayStatus(status),
		AmountMinor:      amountMinor(payload, "amount"),
		ReservationID:    resID,
		CreditPurchaseID: cpID,
		Raw:              payload,
	}, nil
}

func mapKkiaPayStatus(s string) types.PaymentStatus {
	switch s {
	case "SUCCESS":
		return types.PaymentStatusCompleted
	case "FAILED":
		return types.PaymentStatusFailed
	default:
		return types.PaymentStatusPending
	}
}
