package webhook

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomonto/payments/pkg/types"
)

func TestParseBody_JSON(t *testing.T) {
	m, err := ParseBody("application/json", []byte(`{"transactionId":"KKI1","amount":50000}`))
	require.NoError(t, err)
	require.Contains(t, m, "transactionId")
	require.Equal(t, int64(50000), amountMinor(m, "amount"))
}

func TestParseBody_JSONWithoutContentType(t *testing.T) {
	m, err := ParseBody("", []byte(`  {"status":"success"}`))
	require.NoError(t, err)
	require.Equal(t, "success", m["status"])
}

func TestParseBody_FormEncoded(t *testing.T) {
	m, err := ParseBody("application/x-www-form-urlencoded", []byte(`cpm_trans_id=CP-9&cpm_amount=1500`))
	require.NoError(t, err)
	require.Equal(t, "CP-9", m["cpm_trans_id"])
}

func TestParseBody_Garbage(t *testing.T) {
	_, err := ParseBody("application/json", []byte(`{not json`))
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestSniffParser(t *testing.T) {
	p, err := SniffParser(map[string]any{"entity": "transaction", "status": "approved"})
	require.NoError(t, err)
	require.Equal(t, types.PaymentProviderFedaPay, p.Provider())

	p, err = SniffParser(map[string]any{"transactionId": "K1", "status": "SUCCESS"})
	require.NoError(t, err)
	require.Equal(t, types.PaymentProviderKkiaPay, p.Provider())

	p, err = SniffParser(map[string]any{"transaction_id": "K2"})
	require.NoError(t, err)
	require.Equal(t, types.PaymentProviderKkiaPay, p.Provider())

	_, err = SniffParser(map[string]any{})
	require.ErrorIs(t, err, ErrUnknownPayload)
}

func TestFedaPayParser_StatusMapping(t *testing.T) {
	cases := map[string]types.PaymentStatus{
		"approved":  types.PaymentStatusCompleted,
		"declined":  types.PaymentStatusFailed,
		"cancelled": types.PaymentStatusFailed,
		"pending":   types.PaymentStatusPending,
		"anything":  types.PaymentStatusPending,
	}
	for status, want := range cases {
		ev, err := FedaPayParser{}.Parse(map[string]any{
			"entity": "transaction", "id": "FP-1", "status": status, "amount": float64(2500),
		})
		require.NoError(t, err)
		require.Equal(t, want, ev.Status, "status=%s", status)
		require.Equal(t, "FP-1", ev.Reference)
		require.Equal(t, int64(2500), ev.AmountMinor)
	}
}

func TestFedaPayParser_MetadataRelatedIDs(t *testing.T) {
	ev, err := FedaPayParser{}.Parse(map[string]any{
		"entity": "transaction", "reference": "FP-2", "status": "approved",
		"metadata": map[string]any{"reservation_id": "R9"},
	})
	require.NoError(t, err)
	require.Equal(t, "R9", ev.ReservationID)
}

func TestFedaPayParser_MissingReference(t *testing.T) {
	_, err := FedaPayParser{}.Parse(map[string]any{"entity": "transaction", "status": "approved"})
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestKkiaPayParser_StatusMapping(t *testing.T) {
	cases := map[string]types.PaymentStatus{
		"SUCCESS":    types.PaymentStatusCompleted,
		"FAILED":     types.PaymentStatusFailed,
		"PROCESSING": types.PaymentStatusPending,
	}
	for status, want := range cases {
		ev, err := KkiaPayParser{}.Parse(map[string]any{"transactionId": "KKI123", "status": status})
		require.NoError(t, err)
		require.Equal(t, want, ev.Status, "status=%s", status)
	}
}

func TestKkiaPayParser_DataContainer(t *testing.T) {
	ev, err := KkiaPayParser{}.Parse(map[string]any{
		"transactionId": "KKI123",
		"status":        "SUCCESS",
		"amount":        float64(50000),
		"data":          map[string]any{"reservation_id": "R1"},
	})
	require.NoError(t, err)
	require.Equal(t, "KKI123", ev.Reference)
	require.Equal(t, "R1", ev.ReservationID)
	require.Equal(t, int64(50000), ev.AmountMinor)
}

func TestGenericParser_StatusMapping(t *testing.T) {
	cases := map[string]types.PaymentStatus{
		"success": types.PaymentStatusCompleted,
		"failed":  types.PaymentStatusFailed,
		"pending": types.PaymentStatusPending,
		"other":   types.PaymentStatusPending,
	}
	for status, want := range cases {
		ev, err := GenericParser{}.Parse(map[string]any{"transaction_id": "MM-1", "status": status})
		require.NoError(t, err)
		require.Equal(t, want, ev.Status, "status=%s", status)
	}
}

func TestGenericParser_AmountAsString(t *testing.T) {
	ev, err := GenericParser{}.Parse(map[string]any{"transaction_id": "MM-2", "status": "success", "amount": "12500"})
	require.NoError(t, err)
	require.Equal(t, int64(12500), ev.AmountMinor)
}

func TestCinetPayReference(t *testing.T) {
	ref, err := CinetPayReference(map[string]any{"cpm_trans_id": "CP-1"})
	require.NoError(t, err)
	require.Equal(t, "CP-1", ref)

	_, err = CinetPayReference(map[string]any{"cpm_site_id": "42"})
	require.ErrorIs(t, err, ErrMalformedPayload)
}
