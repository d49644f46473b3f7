package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// DailySales is one zero-filled day of the admin sales series.
type DailySales struct {
	Day     time.Time
	Count   int64
	Revenue decimal.Decimal
}

// DashboardMetrics aggregates the admin dashboard numbers.
type DashboardMetrics struct {
	TotalUsers    int64
	TotalProducts int64
	TotalOrders   int64
	TotalRevenue  decimal.Decimal
	RecentOrders  []entity.Order
	DailySales    []DailySales
}

// MetricsUsecase defines the admin dashboard aggregation.
type MetricsUsecase interface {
	// Dashboard returns counts, total revenue, the latest orders and a
	// zero-filled daily sales series for the trailing window.
	Dashboard(ctx context.Context) (*DashboardMetrics, error)
}
