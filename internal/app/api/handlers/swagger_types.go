package handlers

import (
	"github.com/gomonto/payments/internal/app/service/statistics"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// RespWebhook wraps WebhookResult in the standard envelope.
type RespWebhook struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    WebhookResult `json:"data"`
}

// RespListTransactions wraps ListTransactionsResponse in the standard envelope.
type RespListTransactions struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Data    ListTransactionsResponse `json:"data"`
}

// RespPaymentStatistic wraps PaymentStatisticResponse in the standard envelope.
type RespPaymentStatistic struct {
	Success bool                                `json:"success"`
	Message string                              `json:"message"`
	Data    statistics.PaymentStatisticResponse `json:"data"`
}
