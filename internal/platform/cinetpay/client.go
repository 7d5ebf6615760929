// Package cinetpay wraps the CinetPay synchronous payment-check API. The
// webhook CinetPay sends carries no trustworthy status, so the service
// always confirms against this endpoint before reconciling.
package cinetpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/gomonto/payments/pkg/config"
	"github.com/gomonto/payments/pkg/types"
)

const checkPath = "/v2/payment/check"

// codeWaitingCustomer is returned while the customer has not finished the
// mobile-money confirmation on their handset.
const codeWaitingCustomer = "662"

type Client struct {
	apiKey  string
	siteID  string
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		apiKey:  cfg.CinetPay.APIKey,
		siteID:  cfg.CinetPay.SiteID,
		baseURL: strings.TrimSuffix(cfg.CinetPay.BaseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// Configured reports whether provider credentials are present. Callers must
// check before use; an unconfigured client surfaces as a 400 at the API
// layer, never as a silent skip.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.siteID != ""
}

type checkRequest struct {
	APIKey        string `json:"apikey"`
	SiteID        string `json:"site_id"`
	TransactionID string `json:"transaction_id"`
}

type checkResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status        string `json:"status"`
		Currency      string `json:"currency"`
		PaymentMethod string `json:"payment_method"`
		PaymentDate   string `json:"payment_date"`
	} `json:"data"`
}

// CheckResult is the provider's answer mapped into the internal vocabulary,
// with the raw payload retained for the transaction's provider_response.
type CheckResult struct {
	Status         types.PaymentStatus
	ProviderStatus string
	AmountMinor    int64
	Raw            map[string]any
}

// CheckStatus queries the provider for the authoritative state of a
// transaction.
func (c *Client) CheckStatus(ctx context.Context, transactionID string) (*CheckResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("cinetpay credentials not configured")
	}

	body, err := json.Marshal(checkRequest{APIKey: c.apiKey, SiteID: c.siteID, TransactionID: transactionID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+checkPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cinetpay check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cinetpay check returned status %d", resp.StatusCode)
	}

	var parsed checkResponse
	raw := map[string]any{}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("cinetpay check returned invalid JSON: %w", err)
	}
	rawBytes, _ := json.Marshal(raw)
	if err := json.Unmarshal(rawBytes, &parsed); err != nil {
		return nil, fmt.Errorf("cinetpay check returned unexpected shape: %w", err)
	}

	res := &CheckResult{
		Status:         MapStatus(parsed.Code, parsed.Data.Status),
		ProviderStatus: parsed.Data.Status,
		AmountMinor:    amountFromRaw(raw),
		Raw:            raw,
	}

	c.log.Infow("cinetpay_check_status",
		"transaction_id", transactionID,
		"code", parsed.Code,
		"provider_status", parsed.Data.Status,
		"status", res.Status,
	)
	return res, nil
}

// amountFromRaw reads data.amount, which the provider sends as a JSON
// number or a numeric string depending on the payment channel.
func amountFromRaw(raw map[string]any) int64 {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return 0
	}
	switch v := data["amount"].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

// MapStatus maps the provider's code/status pair onto the internal status.
// ACCEPTED completes, REFUSED and CANCELLED fail, 662 and WAITING_* stay
// pending; anything else is treated as pending until the provider settles.
func MapStatus(code, status string) types.PaymentStatus {
	switch strings.ToUpper(status) {
	case "ACCEPTED":
		return types.PaymentStatusCompleted
	case "REFUSED", "CANCELLED":
		return types.PaymentStatusFailed
	}
	if code == codeWaitingCustomer || strings.HasPrefix(strings.ToUpper(status), "WAITING") {
		return types.PaymentStatusPending
	}
	return types.PaymentStatusPending
}
