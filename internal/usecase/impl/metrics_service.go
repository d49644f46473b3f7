package impl

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// salesWindowDays is the length of the trailing daily sales series.
const salesWindowDays = 14

// metricsService implements the MetricsUsecase interface.
type metricsService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      *slog.Logger
}

// MetricsServiceParams holds dependencies for MetricsService, injected by Fx.
type MetricsServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository
	Logger      *slog.Logger
}

// NewMetricsService is the constructor for metricsService.
func NewMetricsService(params MetricsServiceParams) usecase.MetricsUsecase {
	return &metricsService{
		userRepo:    params.UserRepo,
		productRepo: params.ProductRepo,
		orderRepo:   params.OrderRepo,
		logger:      params.Logger,
	}
}

// Dashboard aggregates the admin dashboard numbers.
func (srv *metricsService) Dashboard(ctx context.Context) (*usecase.DashboardMetrics, error) {
	totalUsers, err := srv.userRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}

	totalProducts, err := srv.productRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products")
	}

	totalOrders, err := srv.orderRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count orders")
	}

	totalRevenue, err := srv.orderRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum revenue")
	}

	recentOrders, err := srv.orderRepo.Recent(ctx, 8)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load recent orders")
	}

	since := startOfDay(time.Now().AddDate(0, 0, -(salesWindowDays - 1)))
	stats, err := srv.orderRepo.DailyStats(ctx, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load daily stats")
	}

	return &usecase.DashboardMetrics{
		TotalUsers:    totalUsers,
		TotalProducts: totalProducts,
		TotalOrders:   totalOrders,
		TotalRevenue:  totalRevenue,
		RecentOrders:  recentOrders,
		DailySales:    fillDailySales(since, salesWindowDays, stats),
	}, nil
}

// fillDailySales expands sparse per-day stats into a contiguous series so the
// dashboard chart shows zero days as zeroes.
func fillDailySales(since time.Time, days int, stats []repository.DailyOrderStat) []usecase.DailySales {
	byDay := make(map[time.Time]repository.DailyOrderStat, len(stats))
	for _, stat := range stats {
		byDay[startOfDay(stat.Day)] = stat
	}

	series := make([]usecase.DailySales, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i)
		entry := usecase.DailySales{Day: day, Revenue: decimal.Zero}
		if stat, ok := byDay[day]; ok {
			entry.Count = stat.Count
			entry.Revenue = stat.Revenue
		}
		series = append(series, entry)
	}

	return series
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
