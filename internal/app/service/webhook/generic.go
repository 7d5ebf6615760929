package webhook

import (
	"fmt"

	"github.com/gomonto/payments/pkg/types"
)

// GenericParser handles the plain mobile-money callback shape used by
// aggregators without a dedicated integration: lower-case success / failed /
// pending and a transaction_id reference. Bound to /mobile-money-webhook,
// never reached through sniffing.
type GenericParser struct{}

func (GenericParser) Provider() types.PaymentProvider { return types.PaymentProviderMobileMoney }

func (GenericParser) Parse(payload map[string]any) (*types.PaymentEvent, error) {
	reference, ok := firstString(payload, "transaction_id", "transactionId", "reference")
	if !ok {
		return nil, fmt.Errorf("%w: mobile-money payload has no transaction_id", ErrMalformedPayload)
	}
	status, _ := firstString(payload, "status")

	resID, cpID := relatedIDs(payload, "data")
	return &types.PaymentEvent{
		Provider:         types.PaymentProviderMobileMoney,
		Reference:        reference,
		Status:           mapGenericStatus(status),
		AmountMinor:      amountMinor(payload, "amount"),
		ReservationID:    resID,
		CreditPurchaseID: cpID,
		Raw:              payload,
	}, nil
}

func mapGenericStatus(s string) types.PaymentStatus {
	switch s {
	case "success":
		return types.PaymentStatusCompleted
	case "failed":
		return types.PaymentStatusFailed
	default:
		return types.PaymentStatusPending
	}
}
