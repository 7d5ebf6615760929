package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/gomonto/payments/internal/app/service/reconciler"
	"github.com/gomonto/payments/internal/app/service/webhooklog"
	"github.com/gomonto/payments/internal/models"
	"github.com/gomonto/payments/internal/platform/cinetpay"
	"github.com/gomonto/payments/pkg/config"
	"github.com/gomonto/payments/pkg/logctx"
	"github.com/gomonto/payments/pkg/types"
)

var ErrProviderNotConfigured = errors.New("payment provider not configured")

// Handler runs the full webhook pipeline: signature verification, payload
// normalization, reconciliation, audit logging.
type Handler struct {
	cfg    *config.Config
	logSvc *webhooklog.Service
	rec    reconciler.Reconciler
	cp     *cinetpay.Client
	Logger *zap.SugaredLogger
}

func NewHandler(cfg *config.Config, logSvc *webhooklog.Service, rec reconciler.Reconciler, cp *cinetpay.Client, log *zap.SugaredLogger) *Handler {
	return &Handler{cfg: cfg, logSvc: logSvc, rec: rec, cp: cp, Logger: log}
}

// Handle processes a webhook whose provider is fixed by the route. A nil
// parser falls back to structural sniffing for the shared /payment-webhook
// route.
func (h *Handler) Handle(c *gin.Context, parser Parser) (*reconciler.Result, error) {
	payload, err := h.readBody(c)
	if err != nil {
		return nil, err
	}

	if parser == nil {
		if parser, err = SniffParser(payload); err != nil {
			return nil, err
		}
	}

	ev, err := parser.Parse(payload)
	if err != nil {
		return nil, err
	}
	return h.reconcile(c, ev)
}

// HandleCinetPay processes a CinetPay notify. The notify body only names
// the transaction; the authoritative status comes from the check-status
// API before anything is reconciled.
func (h *Handler) HandleCinetPay(c *gin.Context) (*reconciler.Result, error) {
	payload, err := h.readBody(c)
	if err != nil {
		return nil, err
	}

	reference, err := CinetPayReference(payload)
	if err != nil {
		return nil, err
	}
	return h.checkAndReconcile(c, reference, payload)
}

// CheckCinetPayStatus serves the synchronous /cinetpay-check-status flow:
// same provider lookup and reconciliation as the webhook, minus signature
// verification (the caller is the frontend, not the provider).
func (h *Handler) CheckCinetPayStatus(c *gin.Context, transactionID string) (*reconciler.Result, error) {
	return h.checkAndReconcile(c, transactionID, nil)
}

func (h *Handler) checkAndReconcile(c *gin.Context, reference string, notify map[string]any) (*reconciler.Result, error) {
	if !h.cp.Configured() {
		return nil, ErrProviderNotConfigured
	}
	res, err := h.cp.CheckStatus(c.Request.Context(), reference)
	if err != nil {
		return nil, fmt.Errorf("cinetpay status check failed: %w", err)
	}
	return h.reconcile(c, CinetPayEvent(reference, res, notify))
}

// readBody verifies the signature over the raw body, then decodes it.
// Verification happens before any parsing so a bad signature drops the
// request without touching the database.
func (h *Handler) readBody(c *gin.Context) (map[string]any, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	secret := h.cfg.Webhook.Secret
	header := c.GetHeader(h.cfg.Webhook.SignatureHeader)
	if err := VerifySignature(raw, header, secret); err != nil {
		return nil, err
	}
	if secret == "" {
		logctx.FromGin(c, h.Logger).Warnw("webhook accepted without signature verification")
	}

	return ParseBody(c.ContentType(), raw)
}

func (h *Handler) reconcile(c *gin.Context, ev *types.PaymentEvent) (resResult *reconciler.Result, resErr error) {
	log := logctx.FromGin(c, h.Logger)
	log.Infow("webhook_received", "provider", ev.Provider, "reference", ev.Reference, "status", ev.Status)

	var traceID string
	if v, ok := c.Get("traceID"); ok {
		if s, ok2 := v.(string); ok2 {
			traceID = s
		}
	}
	payloadBytes, _ := json.Marshal(ev.Raw)

	h.logSvc.Save(c.Request.Context(), &models.PaymentWebhookLog{
		Provider:          string(ev.Provider),
		ProviderReference: ev.Reference,
		TraceID:           traceID,
		Payload:           datatypes.JSON(payloadBytes),
		Status:            models.PaymentWebhookLogStatusReceived,
	})

	defer func() {
		resMap := map[string]any{"result": resResult}
		status := models.PaymentWebhookLogStatusHandled
		if resErr != nil {
			resMap["error"] = resErr.Error()
			status = models.PaymentWebhookLogStatusHandleFailed
		}
		resBytes, _ := json.Marshal(resMap)
		h.logSvc.Save(c.Request.Context(), &models.PaymentWebhookLog{
			Provider:          string(ev.Provider),
			ProviderReference: ev.Reference,
			TraceID:           traceID,
			Payload:           datatypes.JSON(payloadBytes),
			Result:            func() *datatypes.JSON { j := datatypes.JSON(resBytes); return &j }(),
			Status:            status,
		})
	}()

	resResult, resErr = h.rec.Reconcile(c.Request.Context(), ev)
	if resErr != nil {
		log.Errorw("webhook_handle_error", "reference", ev.Reference, "error", resErr.Error())
		return nil, resErr
	}
	log.Infow("webhook_handled", "reference", ev.Reference, "status", resResult.Status, "applied", resResult.Applied)
	return resResult, nil
}
