package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// ListOrdersQuery carries pagination and filters for order listings.
// A nil UserID lists across all users (admin scope).
type ListOrdersQuery struct {
	Page   int
	Limit  int
	UserID *uuid.UUID
	Status *entity.OrderStatus
}

// DailyOrderStat is one day of the sales time series.
type DailyOrderStat struct {
	Day     time.Time
	Count   int64
	Revenue decimal.Decimal
}

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// FindByID retrieves a single order with its items and owning user preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// Create persists a new order together with its line items.
	Create(ctx context.Context, order *entity.Order) error

	// Update modifies an existing order entity in the storage.
	Update(ctx context.Context, order *entity.Order) error

	// List returns a page of orders plus the total match count, newest first.
	List(ctx context.Context, query ListOrdersQuery) ([]entity.Order, int64, error)

	// Recent returns the latest n orders with their owning users preloaded.
	Recent(ctx context.Context, n int) ([]entity.Order, error)

	// Count returns the total number of orders.
	Count(ctx context.Context) (int64, error)

	// TotalRevenue sums TotalPrice across all non-cancelled orders.
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)

	// DailyStats returns per-day order counts and revenue since the given
	// time. Days with no orders are absent from the result.
	DailyStats(ctx context.Context, since time.Time) ([]DailyOrderStat, error)
}
