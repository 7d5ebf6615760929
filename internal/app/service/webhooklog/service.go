// Package webhooklog persists the audit trail of inbound provider
// callbacks.
package webhooklog

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gomonto/payments/internal/models"
	"github.com/gomonto/payments/pkg/logctx"
	"github.com/gomonto/payments/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a webhook log row. Logging must never slow
// down or fail the webhook response, so errors only hit the logs. Nil input
// is ignored.
func (s *Service) Save(ctx context.Context, row *models.PaymentWebhookLog) {
	if s == nil || s.db == nil || row == nil {
		return
	}
	go func() {
		if row.ID == "" {
			row.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook log: %v", err)
		}
	}()
}
