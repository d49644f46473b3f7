package usecase

import (
	"context"
	"io"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// ListProductsInput carries catalog listing parameters.
type ListProductsInput struct {
	Page            int
	Limit           int
	Category        *entity.Category
	Search          string
	Featured        *bool
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Sort            repository.ProductSort
	IncludeInactive bool // admin only
}

// SaveProductInput carries the admin-editable product fields.
type SaveProductInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	OriginalPrice  *decimal.Decimal
	Category       entity.Category
	Brand          string
	Quantity       int
	SKU            string
	TrackInventory bool
	IsActive       bool
	IsFeatured     bool
}

// AddReviewInput defines the data required to review a product.
type AddReviewInput struct {
	Rating  int
	Comment string
}

// --- Output DTOs ---

// ProductPage is one page of products plus the total match count.
type ProductPage struct {
	Products []entity.Product
	Total    int64
	Page     int
	Limit    int
}

// ProductUsecase defines catalog reads, admin catalog management and reviews.
type ProductUsecase interface {
	// ListProducts returns a filtered, sorted page of the catalog.
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)

	// GetProduct returns a product with its reviews.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// Categories lists the valid catalog categories.
	Categories(ctx context.Context) []entity.Category

	// CreateProduct adds a catalog entry (admin).
	CreateProduct(ctx context.Context, input SaveProductInput) (*entity.Product, error)

	// UpdateProduct replaces the editable fields of a catalog entry (admin).
	UpdateProduct(ctx context.Context, id uuid.UUID, input SaveProductInput) (*entity.Product, error)

	// DeleteProduct removes a catalog entry and its stored images (admin).
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// AddProductImage stores an uploaded image and appends it to the product
	// (admin).
	AddProductImage(ctx context.Context, id uuid.UUID, nameHint, contentType string, content io.Reader) (*entity.Product, error)

	// AddReview appends a review for the authenticated user and recomputes
	// the derived rating. One review per user per product.
	AddReview(ctx context.Context, productID, userID uuid.UUID, input AddReviewInput) (*entity.Product, error)
}
