package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo repository.ProductRepository
	storage     service.FileStorage
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Storage     service.FileStorage
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo: params.ProductRepo,
		storage:     params.Storage,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns a filtered, sorted page of the catalog.
func (srv *productService) ListProducts(ctx context.Context, input usecase.ListProductsInput) (*usecase.ProductPage, error) {
	products, total, err := srv.productRepo.List(ctx, repository.ListProductsQuery{
		Page:            input.Page,
		Limit:           input.Limit,
		Category:        input.Category,
		Search:          input.Search,
		Featured:        input.Featured,
		MinPrice:        input.MinPrice,
		MaxPrice:        input.MaxPrice,
		IncludeInactive: input.IncludeInactive,
		Sort:            input.Sort,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return &usecase.ProductPage{
		Products: products,
		Total:    total,
		Page:     input.Page,
		Limit:    input.Limit,
	}, nil
}

// GetProduct returns a product with its reviews.
func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// Categories lists the valid catalog categories.
func (srv *productService) Categories(_ context.Context) []entity.Category {
	return entity.Categories()
}

// CreateProduct adds a catalog entry.
func (srv *productService) CreateProduct(ctx context.Context, input usecase.SaveProductInput) (*entity.Product, error) {
	product := &entity.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Category:      input.Category,
		Brand:         input.Brand,
		Inventory: entity.Inventory{
			Quantity:       input.Quantity,
			SKU:            input.SKU,
			TrackInventory: input.TrackInventory,
		},
		IsActive:   input.IsActive,
		IsFeatured: input.IsFeatured,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created",
		slog.Any("productID", product.ID),
		slog.String("name", product.Name))

	return product, nil
}

// UpdateProduct replaces the editable fields of a catalog entry.
func (srv *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input usecase.SaveProductInput) (*entity.Product, error) {
	product, err := srv.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.OriginalPrice = input.OriginalPrice
	product.Category = input.Category
	product.Brand = input.Brand
	product.Inventory.Quantity = input.Quantity
	product.Inventory.SKU = input.SKU
	product.Inventory.TrackInventory = input.TrackInventory
	product.IsActive = input.IsActive
	product.IsFeatured = input.IsFeatured

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// DeleteProduct removes a catalog entry and its stored images.
func (srv *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := srv.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to delete product")
	}

	// Stored image cleanup is best-effort; a leaked object is only storage.
	for _, image := range product.Images {
		if image.Ref == "" {
			continue
		}
		if err := srv.storage.Delete(ctx, image.Ref); err != nil {
			srv.log(ctx).Warn("Failed to delete product image",
				slog.String("key", image.Ref),
				slog.Any("error", err))
		}
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))

	return nil
}

// AddProductImage stores an uploaded image and appends it to the product.
func (srv *productService) AddProductImage(ctx context.Context, id uuid.UUID, nameHint, contentType string, content io.Reader) (*entity.Product, error) {
	product, err := srv.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := srv.storage.Store(ctx, nameHint, contentType, content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store product image")
	}

	product.Images = append(product.Images, entity.ProductImage{
		URL: stored.URL,
		Alt: product.Name,
		Ref: stored.Key,
	})

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to attach product image")
	}

	return product, nil
}

// AddReview appends a review and recomputes the derived rating.
func (srv *productService) AddReview(ctx context.Context, productID, userID uuid.UUID, input usecase.AddReviewInput) (*entity.Product, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "rating",
			Message: "rating must be between 1 and 5",
		})
	}

	review := &entity.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	if err := srv.productRepo.AddReview(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateReview):
			return nil, domainerrors.ErrDuplicateReview
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, domainerrors.ErrProductNotFound
		default:
			return nil, errors.Wrap(err, "failed to add review")
		}
	}

	// Reload and recompute the derived rating from the full review list.
	product, err := srv.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.RecalculateRating()
	if err := srv.productRepo.UpdateRating(ctx, productID, product.AverageRating, product.ReviewCount); err != nil {
		return nil, errors.Wrap(err, "failed to update product rating")
	}

	return product, nil
}
