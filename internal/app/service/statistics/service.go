// Package statistics computes payment rollups for the admin dashboard.
package statistics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gomonto/payments/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

type PaymentStatisticRequest struct {
	// Dates in YYYY-MM-DD, range inclusive.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// Method optionally narrows to one provider.
	Method types.PaymentProvider `json:"method,omitempty"`
}

type DailyPaymentStatistic struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
	// Gmv is the summed amount of completed transactions in minor units.
	Gmv int64 `json:"gmv"`
}

type PaymentStatisticResponse struct {
	Items []*DailyPaymentStatistic `json:"items"`
}

// GetDailyPaymentStatistics returns per-day completed transaction counts and
// GMV over the requested range.
func (s *Service) GetDailyPaymentStatistics(ctx context.Context, req *PaymentStatisticRequest) (*PaymentStatisticResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date before start_date")
	}

	q := s.db.WithContext(ctx).
		Table("payment_transaction").
		Select("to_char(created_at, 'YYYY-MM-DD') AS date, count(*) AS count, coalesce(sum(amount_minor), 0) AS gmv").
		Where("status = ?", types.PaymentStatusCompleted).
		Where("created_at >= ? AND created_at < ?", start, end.AddDate(0, 0, 1))
	if req.Method != "" {
		q = q.Where("payment_method = ?", req.Method)
	}

	var items []*DailyPaymentStatistic
	if err := q.Group("to_char(created_at, 'YYYY-MM-DD')").Order("date").Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to compute payment statistics: %w", err)
	}
	return &PaymentStatisticResponse{Items: items}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
