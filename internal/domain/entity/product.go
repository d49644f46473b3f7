package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the closed enumeration of catalog categories.
type Category string

const (
	CategoryProtein     Category = "protein"
	CategorySupplements Category = "supplements"
	CategoryAccessories Category = "accessories"
	CategoryEquipment   Category = "equipment"
)

// Categories lists every valid catalog category.
func Categories() []Category {
	return []Category{CategoryProtein, CategorySupplements, CategoryAccessories, CategoryEquipment}
}

// IsValid checks if the Category is a valid value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryProtein, CategorySupplements, CategoryAccessories, CategoryEquipment:
		return true
	default:
		return false
	}
}

// ProductImage is a stored catalog image reference.
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
	Ref string `json:"-"` // storage key, used for cleanup when the image is replaced
}

// Inventory is the stock sub-record of a product. Quantity must never go
// negative while TrackInventory is true.
type Inventory struct {
	Quantity       int    `json:"quantity"`
	SKU            string `json:"sku,omitempty"`
	TrackInventory bool   `json:"trackInventory"`
}

// Review is a single customer review embedded in a product's review list.
type Review struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a catalog entry. AverageRating and ReviewCount are derived from
// the review list and recomputed explicitly via RecalculateRating.
type Product struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Category      Category         `json:"category"`
	Brand         string           `json:"brand,omitempty"`
	Images        []ProductImage   `json:"images"`
	Inventory     Inventory        `json:"inventory"`
	IsActive      bool             `json:"isActive"`
	IsFeatured    bool             `json:"isFeatured"`
	Reviews       []Review         `json:"reviews,omitempty"`
	AverageRating float64          `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// HasStock reports whether the requested quantity can be fulfilled.
// Untracked inventory is always considered in stock.
func (p *Product) HasStock(quantity int) bool {
	if !p.Inventory.TrackInventory {
		return true
	}

	return p.Inventory.Quantity >= quantity
}

// PrimaryImageURL returns the first image URL, or "" when the product has no images.
func (p *Product) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0].URL
}

// RecalculateRating recomputes the derived AverageRating and ReviewCount from
// the loaded review list. This is an explicit computation step invoked after
// review mutations, not an implicit persistence hook.
func (p *Product) RecalculateRating() {
	if len(p.Reviews) == 0 {
		p.AverageRating = 0
		p.ReviewCount = 0

		return
	}

	sum := 0
	for _, review := range p.Reviews {
		sum += review.Rating
	}
	p.AverageRating = float64(sum) / float64(len(p.Reviews))
	p.ReviewCount = len(p.Reviews)
}

// DiscountPercentage derives the displayed discount from the original price.
// Returns 0 when no discount applies.
func (p *Product) DiscountPercentage() int {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return 0
	}

	ratio, _ := p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Float64()

	return int(math.Round(ratio * 100))
}
