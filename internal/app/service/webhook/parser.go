package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gomonto/payments/pkg/types"
)

var (
	ErrUnknownPayload   = errors.New("unknown payload format")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Parser maps one provider's payload shape onto a types.PaymentEvent.
type Parser interface {
	Provider() types.PaymentProvider
	Parse(payload map[string]any) (*types.PaymentEvent, error)
}

// ParseBody decodes a webhook body. Providers send either JSON or
// form-encoded bodies depending on product and era of their API.
func ParseBody(contentType string, raw []byte) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.Contains(contentType, "application/json") || strings.HasPrefix(trimmed, "{") {
		out := map[string]any{}
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return out, nil
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	if len(out) == 0 {
		return nil, ErrMalformedPayload
	}
	return out, nil
}

// SniffParser picks a parser by payload structure, for the shared
// /payment-webhook route where no route-level discriminator exists.
// FedaPay marks payloads with entity=="transaction"; KkiaPay always sends a
// transactionId. Anything else is rejected rather than guessed at.
func SniffParser(payload map[string]any) (Parser, error) {
	if s, _ := payload["entity"].(string); s == "transaction" {
		return FedaPayParser{}, nil
	}
	if _, ok := firstString(payload, "transactionId", "transaction_id"); ok {
		return KkiaPayParser{}, nil
	}
	return nil, ErrUnknownPayload
}

// firstString returns the first of keys present as a non-empty string.
func firstString(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case json.Number:
			return v.String(), true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

// amountMinor reads an amount that providers send as a JSON number or a
// numeric string, truncating any decimals (XOF has none).
func amountMinor(m map[string]any, keys ...string) int64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n
			}
			if f, err := v.Float64(); err == nil {
				return int64(f)
			}
		case float64:
			return int64(v)
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return int64(f)
			}
		}
	}
	return 0
}

// subMap returns m[key] when it is an object.
func subMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

// relatedIDs pulls reservation/credit-purchase hints from the payload
// itself and from a nested container (KkiaPay "data", FedaPay "metadata").
func relatedIDs(payload map[string]any, container string) (reservationID, creditPurchaseID string) {
	reservationID, _ = firstString(payload, "reservation_id", "reservationId")
	creditPurchaseID, _ = firstString(payload, "credit_purchase_id", "creditPurchaseId")
	if nested := subMap(payload, container); nested != nil {
		if reservationID == "" {
			reservationID, _ = firstString(nested, "reservation_id", "reservationId")
		}
		if creditPurchaseID == "" {
			creditPurchaseID, _ = firstString(nested, "credit_purchase_id", "creditPurchaseId")
		}
	}
	return reservationID, creditPurchaseID
}
