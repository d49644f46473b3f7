package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicateReview is returned when a user reviews the same product twice.
var ErrDuplicateReview = errors.New("review already exists for this user and product")

// ErrInsufficientStock is returned when a guarded inventory adjustment would
// drive a tracked quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductSort enumerates the supported catalog orderings.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortRating    ProductSort = "rating"
)

// ListProductsQuery carries pagination, filtering and ordering for catalog listings.
type ListProductsQuery struct {
	Page            int
	Limit           int
	Category        *entity.Category
	Search          string // matches name or description, case-insensitive substring
	Featured        *bool
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	IncludeInactive bool
	Sort            ProductSort
}

// ProductRepository defines the standard operations for catalog persistence.
type ProductRepository interface {
	// FindByID retrieves a single product with its reviews preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs retrieves the products matching the given IDs. Missing IDs are
	// simply absent from the result, not an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)

	// Create persists a new product entity to the storage.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product entity in the storage.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of products plus the total match count.
	List(ctx context.Context, query ListProductsQuery) ([]entity.Product, int64, error)

	// AdjustInventory atomically adds delta to a tracked product's quantity.
	// The adjustment is guarded so the quantity never drops below zero; a
	// failed guard returns ErrInsufficientStock. Untracked products are left
	// untouched and return no error.
	AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) error

	// AddReview appends a review and returns ErrDuplicateReview when the user
	// has already reviewed the product.
	AddReview(ctx context.Context, review *entity.Review) error

	// UpdateRating stores the recomputed derived rating fields.
	UpdateRating(ctx context.Context, productID uuid.UUID, average float64, count int) error

	// Count returns the total number of products.
	Count(ctx context.Context) (int64, error)
}
