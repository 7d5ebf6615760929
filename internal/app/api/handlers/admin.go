package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/gomonto/payments/internal/app/service/reconciler"
	"github.com/gomonto/payments/internal/app/service/statistics"
	"github.com/gomonto/payments/internal/models"
	"github.com/gomonto/payments/pkg/response"
	"github.com/gomonto/payments/pkg/types"
)

type ListTransactionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// TransactionItem is the admin dashboard view of a transaction row. The raw
// provider payload stays out of the listing; it is large and only useful
// when investigating a single transaction.
type TransactionItem struct {
	ID                string                `json:"id"`
	ReservationID     *string               `json:"reservation_id"`
	CreditPurchaseID  *string               `json:"credit_purchase_id"`
	AmountMinor       int64                 `json:"amount_minor"`
	Currency          string                `json:"currency"`
	PaymentMethod     types.PaymentProvider `json:"payment_method"`
	Status            types.PaymentStatus   `json:"status"`
	ProviderReference string                `json:"provider_reference"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func toTransactionItem(m *models.PaymentTransaction) *TransactionItem {
	return &TransactionItem{
		ID:                m.ID,
		ReservationID:     m.ReservationID,
		CreditPurchaseID:  m.CreditPurchaseID,
		AmountMinor:       m.AmountMinor,
		Currency:          m.Currency,
		PaymentMethod:     m.PaymentMethod,
		Status:            m.Status,
		ProviderReference: m.ProviderReference,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type ListTransactionsResponse struct {
	Items []*TransactionItem `json:"items"`
	Total int64              `json:"total"`
}

// @Summary      List Payment Transactions (Admin)
// @Description  Retrieves a paginated and filterable list of payment transactions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListTransactionsRequest true "List transactions request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListTransactions
// @Router       /api/v1/admin/list_transactions [post]
func ApiListTransactions(svc *reconciler.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListTransactionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorMsg(err.Error()))
			return
		}
		scanReq := &reconciler.ScanTransactionsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := svc.ScanTransactions(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorMsg("internal server error"))
			return
		}
		items := lo.Map(res.Items, func(it *models.PaymentTransaction, _ int) *TransactionItem { return toTransactionItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListTransactionsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Get Payment Statistics (Admin)
// @Description  Retrieves daily counts and GMV of completed payments.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.PaymentStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespPaymentStatistic
// @Router       /api/v1/admin/payment_statistics [post]
func ApiGetPaymentStatistics(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.PaymentStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorMsg(err.Error()))
			return
		}
		res, err := svc.GetDailyPaymentStatistics(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorMsg(err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, rec *reconciler.Service, stats *statistics.Service) {
	r.POST("/list_transactions", ApiListTransactions(rec))
	r.POST("/payment_statistics", ApiGetPaymentStatistics(stats))
}
