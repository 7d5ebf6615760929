package cinetpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/gomonto/payments/pkg/config"
	"github.com/gomonto/payments/pkg/types"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := &cfgpkg.Config{}
	cfg.CinetPay.APIKey = "key"
	cfg.CinetPay.SiteID = "site"
	cfg.CinetPay.BaseURL = baseURL
	return NewClient(cfg, zap.NewNop().Sugar())
}

func TestMapStatus(t *testing.T) {
	cases := []struct {
		code, status string
		want         types.PaymentStatus
	}{
		{"00", "ACCEPTED", types.PaymentStatusCompleted},
		{"00", "REFUSED", types.PaymentStatusFailed},
		{"00", "CANCELLED", types.PaymentStatusFailed},
		{"662", "WAITING_CUSTOMER_PAYMENT", types.PaymentStatusPending},
		{"00", "WAITING_FOR_CUSTOMER", types.PaymentStatusPending},
		{"00", "", types.PaymentStatusPending},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MapStatus(tc.code, tc.status), "code=%s status=%s", tc.code, tc.status)
	}
}

func TestCheckStatus_Accepted(t *testing.T) {
	var gotBody checkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, checkPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"00","message":"SUCCES","data":{"status":"ACCEPTED","amount":"50000","currency":"XOF","payment_method":"OMCIV2"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res, err := c.CheckStatus(context.Background(), "CP-123")
	require.NoError(t, err)
	require.Equal(t, "CP-123", gotBody.TransactionID)
	require.Equal(t, "key", gotBody.APIKey)
	require.Equal(t, types.PaymentStatusCompleted, res.Status)
	require.Equal(t, int64(50000), res.AmountMinor)
	require.Equal(t, "ACCEPTED", res.ProviderStatus)
	require.NotEmpty(t, res.Raw)
}

func TestCheckStatus_WaitingCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"662","message":"WAITING_CUSTOMER_PAYMENT","data":{"status":"WAITING_CUSTOMER_PAYMENT","amount":1000}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res, err := c.CheckStatus(context.Background(), "CP-456")
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusPending, res.Status)
}

func TestCheckStatus_NotConfigured(t *testing.T) {
	c := NewClient(&cfgpkg.Config{}, zap.NewNop().Sugar())
	require.False(t, c.Configured())
	_, err := c.CheckStatus(context.Background(), "CP-1")
	require.Error(t, err)
}
