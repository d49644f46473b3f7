package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusStateMachine(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())

	assert.True(t, OrderStatusPending.UserCancellable())
	assert.True(t, OrderStatusProcessing.UserCancellable())
	assert.False(t, OrderStatusShipped.UserCancellable())
	assert.False(t, OrderStatusDelivered.UserCancellable())
	assert.False(t, OrderStatusCancelled.UserCancellable())

	assert.True(t, OrderStatusShipped.IsValid())
	assert.False(t, OrderStatus("returned").IsValid())
}

func TestPaymentMethodIsValid(t *testing.T) {
	assert.True(t, PaymentMethodCard.IsValid())
	assert.True(t, PaymentMethodPaypal.IsValid())
	assert.True(t, PaymentMethodBankTransfer.IsValid())
	assert.False(t, PaymentMethod("cash").IsValid())
}

func TestComputeTotalFromFrozenItems(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Price: decimal.RequireFromString("25.50"), Quantity: 2},
			{Price: decimal.RequireFromString("9.99"), Quantity: 1},
		},
		TaxPrice:      decimal.RequireFromString("4.00"),
		ShippingPrice: decimal.RequireFromString("6.01"),
	}

	assert.True(t, order.ItemsPrice().Equal(decimal.RequireFromString("60.99")))

	// Any previously stored total is overwritten.
	order.TotalPrice = decimal.RequireFromString("1.00")
	order.ComputeTotal()
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("71.00")), order.TotalPrice.String())
}

func TestComputeTotalEmptyOrder(t *testing.T) {
	var order Order
	order.ComputeTotal()
	assert.True(t, order.TotalPrice.IsZero())
}

func TestMarkDelivered(t *testing.T) {
	order := Order{ID: uuid.New(), Status: OrderStatusShipped}
	now := time.Now()

	order.MarkDelivered(now)

	assert.Equal(t, OrderStatusDelivered, order.Status)
	assert.True(t, order.IsDelivered)
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, now, *order.DeliveredAt)
}
