package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAggregatesAndZeroFills(t *testing.T) {
	users := newMemUserRepo()
	products := newMemProductRepo()
	orders := newMemOrderRepo()

	require.NoError(t, users.Create(context.Background(), &entity.User{
		Email: "alex@example.com", Role: entity.RoleUser, IsActive: true,
	}))
	require.NoError(t, products.Create(context.Background(), &entity.Product{
		Name: "whey", Price: decimal.RequireFromString("25.50"), Category: entity.CategoryProtein, IsActive: true,
	}))

	require.NoError(t, orders.Create(context.Background(), &entity.Order{
		UserID:     uuid.New(),
		Status:     entity.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("100.00"),
	}))
	require.NoError(t, orders.Create(context.Background(), &entity.Order{
		UserID:     uuid.New(),
		Status:     entity.OrderStatusCancelled,
		TotalPrice: decimal.RequireFromString("40.00"),
	}))

	svc := NewMetricsService(MetricsServiceParams{
		UserRepo:    users,
		ProductRepo: products,
		OrderRepo:   orders,
		Logger:      discardLogger(),
	})

	metrics, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, metrics.TotalUsers)
	assert.EqualValues(t, 1, metrics.TotalProducts)
	assert.EqualValues(t, 2, metrics.TotalOrders)

	// Cancelled orders never count toward revenue.
	assert.True(t, metrics.TotalRevenue.Equal(decimal.RequireFromString("100.00")), metrics.TotalRevenue.String())

	assert.Len(t, metrics.RecentOrders, 2)

	// The series is contiguous even when most days have no orders.
	require.Len(t, metrics.DailySales, 14)
	var totalCount int64
	for i, day := range metrics.DailySales {
		totalCount += day.Count
		if i > 0 {
			assert.Equal(t, 24.0, day.Day.Sub(metrics.DailySales[i-1].Day).Hours())
		}
	}
	assert.EqualValues(t, 1, totalCount)
}

func TestDashboardEmptyStore(t *testing.T) {
	svc := NewMetricsService(MetricsServiceParams{
		UserRepo:    newMemUserRepo(),
		ProductRepo: newMemProductRepo(),
		OrderRepo:   newMemOrderRepo(),
		Logger:      discardLogger(),
	})

	metrics, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, metrics.TotalOrders)
	assert.True(t, metrics.TotalRevenue.IsZero())
	require.Len(t, metrics.DailySales, 14)
	for _, day := range metrics.DailySales {
		assert.Zero(t, day.Count)
		assert.True(t, day.Revenue.IsZero())
	}
}
