package webhook

import (
	"fmt"

	"github.com/gomonto/payments/internal/platform/cinetpay"
	"github.com/gomonto/payments/pkg/types"
)

// CinetPayReference extracts the transaction reference from a CinetPay
// notify payload. CinetPay's webhook body is only a ping; the status it
// carries is not authoritative, so the caller must confirm through the
// check-status API before reconciling.
func CinetPayReference(payload map[string]any) (string, error) {
	reference, ok := firstString(payload, "cpm_trans_id", "transaction_id")
	if !ok {
		return "", fmt.Errorf("%w: cinetpay payload has no cpm_trans_id", ErrMalformedPayload)
	}
	return reference, nil
}

// CinetPayEvent builds the normalized event from the provider's check-status
// answer, merging the original notify payload into Raw for the audit trail.
func CinetPayEvent(reference string, res *cinetpay.CheckResult, notify map[string]any) *types.PaymentEvent {
	raw := res.Raw
	if raw == nil {
		raw = map[string]any{}
	}
	if notify != nil {
		raw["notify"] = notify
	}
	return &types.PaymentEvent{
		Provider:    types.PaymentProviderCinetPay,
		Reference:   reference,
		Status:      res.Status,
		AmountMinor: res.AmountMinor,
		Raw:         raw,
	}
}
