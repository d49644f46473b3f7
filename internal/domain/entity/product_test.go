package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHasStock(t *testing.T) {
	tracked := Product{Inventory: Inventory{Quantity: 3, TrackInventory: true}}
	assert.True(t, tracked.HasStock(3))
	assert.False(t, tracked.HasStock(4))

	untracked := Product{Inventory: Inventory{Quantity: 0, TrackInventory: false}}
	assert.True(t, untracked.HasStock(100))
}

func TestPrimaryImageURL(t *testing.T) {
	var bare Product
	assert.Empty(t, bare.PrimaryImageURL())

	product := Product{Images: []ProductImage{
		{URL: "https://cdn.example.com/a.jpg"},
		{URL: "https://cdn.example.com/b.jpg"},
	}}
	assert.Equal(t, "https://cdn.example.com/a.jpg", product.PrimaryImageURL())
}

func TestRecalculateRating(t *testing.T) {
	product := Product{Reviews: []Review{
		{Rating: 5},
		{Rating: 4},
		{Rating: 2},
	}}

	product.RecalculateRating()
	assert.Equal(t, 3, product.ReviewCount)
	assert.InDelta(t, 11.0/3.0, product.AverageRating, 0.001)

	product.Reviews = nil
	product.RecalculateRating()
	assert.Zero(t, product.ReviewCount)
	assert.Zero(t, product.AverageRating)
}

func TestDiscountPercentage(t *testing.T) {
	price := decimal.RequireFromString("75.00")
	original := decimal.RequireFromString("100.00")

	product := Product{Price: price, OriginalPrice: &original}
	assert.Equal(t, 25, product.DiscountPercentage())

	// No original price, or one at or below the sale price, means no discount.
	assert.Zero(t, (&Product{Price: price}).DiscountPercentage())

	same := decimal.RequireFromString("75.00")
	assert.Zero(t, (&Product{Price: price, OriginalPrice: &same}).DiscountPercentage())
}

func TestCategoryIsValid(t *testing.T) {
	for _, category := range Categories() {
		assert.True(t, category.IsValid())
	}
	assert.False(t, Category("toys").IsValid())
}
