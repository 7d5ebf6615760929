package webhook

import (
	"fmt"

	"github.com/gomonto/payments/pkg/types"
)

// FedaPayParser handles FedaPay transaction callbacks. FedaPay payloads are
// recognizable by entity=="transaction" and use the approved / declined /
// cancelled vocabulary.
type FedaPayParser struct{}

func (FedaPayParser) Provider() types.PaymentProvider { return types.PaymentProviderFedaPay }

func (FedaPayParser) Parse(payload map[string]any) (*types.PaymentEvent, error) {
	reference, ok := firstString(payload, "reference", "id", "transaction_id")
	if !ok {
		return nil, fmt.Errorf("%w: fedapay payload has no transaction reference", ErrMalformedPayload)
	}
	status, _ := firstString(payload, "status")

	resID, cpID := relatedIDs(payload, "metadata")
	return &types.PaymentEvent{
		Provider:         types.PaymentProviderFedaPay,
		Reference:        reference,
		Status:           mapFedaPayStatus(status),
		AmountMinor:      amountMinor(payload, "amount"),
		ReservationID:    resID,
		CreditPurchaseID: cpID,
		Raw:              payload,
	}, nil
}

func mapFedaPayStatus(s string) types.PaymentStatus {
	switch s {
	case "approved":
		return types.PaymentStatusCompleted
	case "declined", "cancelled":
		return types.PaymentStatusFailed
	default:
		return types.PaymentStatusPending
	}
}
