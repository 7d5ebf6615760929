package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gomonto/payments/internal/app/service/reconciler"
	wh "github.com/gomonto/payments/internal/app/service/webhook"
	"github.com/gomonto/payments/pkg/logctx"
	"github.com/gomonto/payments/pkg/response"
	"github.com/gomonto/payments/pkg/types"
)

var webhooksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gomonto",
	Subsystem: "payments",
	Name:      "webhooks_total",
	Help:      "Webhooks processed, partitioned by provider and outcome.",
}, []string{"provider", "outcome"})

// WebhookResult is the success body returned to providers and to the
// check-status caller.
type WebhookResult struct {
	Reference      string              `json:"reference"`
	Status         types.PaymentStatus `json:"status"`
	AlreadyApplied bool                `json:"already_applied,omitempty"`
	Transaction    any                 `json:"transaction,omitempty"`
}

func toWebhookResult(res *reconciler.Result, echoTransaction bool) *WebhookResult {
	out := &WebhookResult{Status: res.Status, AlreadyApplied: res.AlreadyApplied}
	if res.Transaction != nil {
		out.Reference = res.Transaction.ProviderReference
		if echoTransaction {
			out.Transaction = res.Transaction
		}
	}
	return out
}

// writeWebhookError maps pipeline errors onto the HTTP contract: 401 for
// signature failures, 400 for unusable payloads, 404 for unknown rows, and
// a deliberately generic 500 for everything else so provider dashboards
// never see internal detail.
func writeWebhookError(c *gin.Context, provider types.PaymentProvider, err error) {
	switch {
	case errors.Is(err, wh.ErrMissingSignature), errors.Is(err, wh.ErrInvalidSignature):
		webhooksProcessed.WithLabelValues(string(provider), "rejected").Inc()
		c.JSON(http.StatusUnauthorized, response.ErrorMsg("invalid signature"))
	case errors.Is(err, wh.ErrUnknownPayload):
		webhooksProcessed.WithLabelValues(string(provider), "rejected").Inc()
		c.JSON(http.StatusBadRequest, response.ErrorMsg("unknown payload format"))
	case errors.Is(err, wh.ErrMalformedPayload):
		webhooksProcessed.WithLabelValues(string(provider), "rejected").Inc()
		c.JSON(http.StatusBadRequest, response.ErrorMsg(err.Error()))
	case errors.Is(err, wh.ErrProviderNotConfigured):
		webhooksProcessed.WithLabelValues(string(provider), "rejected").Inc()
		c.JSON(http.StatusBadRequest, response.ErrorMsg("payment provider not configured"))
	case errors.Is(err, reconciler.ErrTransactionNotFound):
		webhooksProcessed.WithLabelValues(string(provider), "not_found").Inc()
		c.JSON(http.StatusNotFound, response.ErrorMsg("transaction not found"))
	case errors.Is(err, reconciler.ErrReservationNotFound):
		webhooksProcessed.WithLabelValues(string(provider), "not_found").Inc()
		c.JSON(http.StatusNotFound, response.ErrorMsg("reservation not found"))
	default:
		webhooksProcessed.WithLabelValues(string(provider), "error").Inc()
		c.JSON(http.StatusInternalServerError, response.ErrorMsg("internal server error"))
	}
}

// @Summary      CinetPay Webhook
// @Description  Handles CinetPay payment notifications. The notify body names the transaction; the status is confirmed against the check-status API before reconciling.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespWebhook
// @Router       /cinetpay-webhook [post]
func ApiCinetPayWebhook(h *wh.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.HandleCinetPay(c)
		if err != nil {
			logctx.FromGin(c, h.Logger).Errorw("webhook_cinetpay_error", "error", err.Error())
			writeWebhookError(c, types.PaymentProviderCinetPay, err)
			return
		}
		webhooksProcessed.WithLabelValues(string(types.PaymentProviderCinetPay), string(res.Status)).Inc()
		c.JSON(http.StatusOK, response.OKT(toWebhookResult(res, false)))
	}
}

// @Summary      Payment Webhook
// @Description  Handles FedaPay and KkiaPay payment callbacks, discriminated by payload structure.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespWebhook
// @Router       /payment-webhook [post]
func ApiPaymentWebhook(h *wh.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.Handle(c, nil)
		if err != nil {
			logctx.FromGin(c, h.Logger).Errorw("webhook_payment_error", "error", err.Error())
			writeWebhookError(c, providerFromResult(res), err)
			return
		}
		provider := types.PaymentProvider("")
		if res.Transaction != nil {
			provider = res.Transaction.PaymentMethod
		}
		webhooksProcessed.WithLabelValues(string(provider), string(res.Status)).Inc()
		c.JSON(http.StatusOK, response.OKT(toWebhookResult(res, false)))
	}
}

// @Summary      Mobile Money Webhook
// @Description  Handles generic mobile-money aggregator callbacks.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespWebhook
// @Router       /mobile-money-webhook [post]
func ApiMobileMoneyWebhook(h *wh.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.Handle(c, wh.GenericParser{})
		if err != nil {
			logctx.FromGin(c, h.Logger).Errorw("webhook_mobile_money_error", "error", err.Error())
			writeWebhookError(c, types.PaymentProviderMobileMoney, err)
			return
		}
		webhooksProcessed.WithLabelValues(string(types.PaymentProviderMobileMoney), string(res.Status)).Inc()
		c.JSON(http.StatusOK, response.OKT(toWebhookResult(res, false)))
	}
}

type checkStatusRequest struct {
	TransactionID string `json:"transaction_id"`
}

// @Summary      CinetPay Check Status
// @Description  Queries CinetPay for the current status of a transaction and reconciles it like a webhook would. Returns the local transaction row alongside the status.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body checkStatusRequest true "Transaction to check"
// @Success      200  {object}  handlers.RespWebhook
// @Router       /cinetpay-check-status [post]
func ApiCinetPayCheckStatus(h *wh.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.TransactionID == "" {
			c.JSON(http.StatusBadRequest, response.ErrorMsg("transaction_id is required"))
			return
		}

		res, err := h.CheckCinetPayStatus(c, req.TransactionID)
		if err != nil {
			logctx.FromGin(c, h.Logger).Errorw("check_status_error", "transaction_id", req.TransactionID, "error", err.Error())
			writeWebhookError(c, types.PaymentProviderCinetPay, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toWebhookResult(res, true)))
	}
}

func providerFromResult(res *reconciler.Result) types.PaymentProvider {
	if res != nil && res.Transaction != nil {
		return res.Transaction.PaymentMethod
	}
	return ""
}

func RegisterWebhookRoutes(r gin.IRouter, h *wh.Handler) {
	r.POST("/cinetpay-webhook", ApiCinetPayWebhook(h))
	r.POST("/payment-webhook", ApiPaymentWebhook(h))
	r.POST("/mobile-money-webhook", ApiMobileMoneyWebhook(h))
	r.POST("/cinetpay-check-status", ApiCinetPayCheckStatus(h))
}
