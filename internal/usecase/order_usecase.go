package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// OrderItemInput is one requested line of a checkout.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput defines the data required to place an order. Any
// client-supplied total is ignored; the total is derived server-side.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress entity.ShippingAddress
	PaymentMethod   entity.PaymentMethod
	TaxPrice        decimal.Decimal
	ShippingPrice   decimal.Decimal
	Notes           string
}

// ListOrdersInput carries pagination and filters for the admin order listing.
type ListOrdersInput struct {
	Page   int
	Limit  int
	Status *entity.OrderStatus
}

// UpdateOrderStatusInput carries an admin status transition. Nil optional
// fields leave the current values untouched.
type UpdateOrderStatusInput struct {
	Status         entity.OrderStatus
	TrackingNumber *string
	Notes          *string
}

// --- Output DTOs ---

// OrderPage is one page of orders plus the total match count.
type OrderPage struct {
	Orders []entity.Order
	Total  int64
	Page   int
	Limit  int
}

// OrderUsecase defines the order workflow operations.
type OrderUsecase interface {
	// CreateOrder places an order: freezes item snapshots, derives the total
	// and decrements tracked inventory, all within one transaction.
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*entity.Order, error)

	// GetOrder returns an order to its owner or to an administrator.
	GetOrder(ctx context.Context, requester *entity.User, orderID uuid.UUID) (*entity.Order, error)

	// ListMyOrders returns the requester's orders, newest first.
	ListMyOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderPage, error)

	// CancelOrder cancels an order and restores tracked inventory. Owners may
	// cancel while pending or processing; administrators at any non-terminal
	// state.
	CancelOrder(ctx context.Context, requester *entity.User, orderID uuid.UUID) (*entity.Order, error)

	// ListOrders returns a page across all users (admin).
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderPage, error)

	// UpdateOrderStatus applies an admin transition. Transitions out of
	// terminal states are rejected; delivered stamps the delivery timestamp.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, input UpdateOrderStatusInput) (*entity.Order, error)
}
