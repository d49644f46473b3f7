package postgres

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{
		db: db,
	}
}

// FindByID retrieves a single product with its reviews preloaded.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by ID")
	}

	return toProductDomain(&productM), nil
}

// FindByIDs retrieves the products matching the given IDs.
func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}

	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id IN ?", ids).
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products by IDs")
	}

	products := make([]entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, *toProductDomain(productM))
	}

	return products, nil
}

// Create persists a new product entity to the storage.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		return errors.Wrap(err, "failed to create product")
	}

	// Update the entity with generated values
	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update modifies an existing product entity in the storage. The image set
// is replaced wholesale; reviews are managed through AddReview.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at", "average_rating", "review_count", "Images", "Reviews").
		Updates(productM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Delete(&model.ProductImageModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear product images")
	}

	if len(productM.Images) > 0 {
		for i := range productM.Images {
			productM.Images[i].ProductID = product.ID
		}
		if err := repo.db.WithContext(ctx).Create(&productM.Images).Error; err != nil {
			return errors.Wrap(err, "failed to store product images")
		}
	}

	return nil
}

// Delete removes a product by ID together with its images and reviews.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", id).
		Delete(&model.ProductImageModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete product images")
	}

	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", id).
		Delete(&model.ReviewModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete product reviews")
	}

	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// List returns a page of products plus the total match count.
func (repo *productRepository) List(ctx context.Context, query repository.ListProductsQuery) ([]entity.Product, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.ProductModel{})

	if !query.IncludeInactive {
		tx = tx.Where("is_active = ?", true)
	}
	if query.Category != nil {
		tx = tx.Where("category = ?", string(*query.Category))
	}
	if query.Featured != nil {
		tx = tx.Where("is_featured = ?", *query.Featured)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + search + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if query.MinPrice != nil {
		tx = tx.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		tx = tx.Where("price <= ?", *query.MaxPrice)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	var productModels []*model.ProductModel
	if err := tx.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order(productOrderClause(query.Sort)).
		Offset(pageOffset(query.Page, query.Limit)).
		Limit(pageLimit(query.Limit)).
		Find(&productModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, *toProductDomain(productM))
	}

	return products, total, nil
}

// AdjustInventory atomically adds delta to a tracked product's quantity.
// The WHERE guard keeps tracked quantities non-negative even under
// concurrent checkouts.
func (repo *productRepository) AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) error {
	result := repo.db.WithContext(ctx).Exec(
		`UPDATE products
		 SET quantity = quantity + ?, updated_at = NOW()
		 WHERE id = ? AND track_inventory AND quantity + ? >= 0`,
		delta, productID, delta,
	)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to adjust inventory")
	}

	if result.RowsAffected == 0 {
		// Either the product is untracked or the guard failed. Untracked
		// products need no adjustment and are not an error.
		var tracked bool
		if err := repo.db.WithContext(ctx).
			Model(&model.ProductModel{}).
			Select("track_inventory").
			Where("id = ?", productID).
			Scan(&tracked).Error; err != nil {
			return errors.Wrap(err, "failed to check inventory tracking")
		}

		if tracked {
			return repository.ErrInsufficientStock
		}
	}

	return nil
}

// AddReview appends a review, rejecting duplicates per user and product.
func (repo *productRepository) AddReview(ctx context.Context, review *entity.Review) error {
	reviewM := &model.ReviewModel{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt

	return nil
}

// UpdateRating stores the recomputed derived rating fields.
func (repo *productRepository) UpdateRating(ctx context.Context, productID uuid.UUID, average float64, count int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"average_rating": average,
			"review_count":   count,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product rating")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// Count returns the total number of products.
func (repo *productRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count products")
	}

	return total, nil
}

// productOrderClause maps the requested sort onto a SQL ORDER BY clause.
func productOrderClause(sort repository.ProductSort) string {
	switch sort {
	case repository.ProductSortPriceAsc:
		return "price ASC"
	case repository.ProductSortPriceDesc:
		return "price DESC"
	case repository.ProductSortRating:
		return "average_rating DESC"
	default:
		return "created_at DESC"
	}
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	images := make([]entity.ProductImage, 0, len(data.Images))
	for _, imageM := range data.Images {
		images = append(images, entity.ProductImage{
			URL: imageM.URL,
			Alt: imageM.Alt,
			Ref: imageM.Ref,
		})
	}

	reviews := make([]entity.Review, 0, len(data.Reviews))
	for _, reviewM := range data.Reviews {
		reviews = append(reviews, entity.Review{
			ID:        reviewM.ID,
			ProductID: reviewM.ProductID,
			UserID:    reviewM.UserID,
			Rating:    reviewM.Rating,
			Comment:   reviewM.Comment,
			CreatedAt: reviewM.CreatedAt,
		})
	}

	return &entity.Product{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		OriginalPrice: data.OriginalPrice,
		Category:      entity.Category(data.Category),
		Brand:         data.Brand,
		Images:        images,
		Inventory: entity.Inventory{
			Quantity:       data.Quantity,
			SKU:            data.SKU,
			TrackInventory: data.TrackInventory,
		},
		IsActive:      data.IsActive,
		IsFeatured:    data.IsFeatured,
		Reviews:       reviews,
		AverageRating: data.AverageRating,
		ReviewCount:   data.ReviewCount,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	images := make([]model.ProductImageModel, 0, len(data.Images))
	for i, image := range data.Images {
		images = append(images, model.ProductImageModel{
			ProductID: data.ID,
			URL:       image.URL,
			Alt:       image.Alt,
			Ref:       image.Ref,
			Position:  i,
		})
	}

	return &model.ProductModel{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		Price:          data.Price,
		OriginalPrice:  data.OriginalPrice,
		Category:       string(data.Category),
		Brand:          data.Brand,
		Quantity:       data.Inventory.Quantity,
		SKU:            data.Inventory.SKU,
		TrackInventory: data.Inventory.TrackInventory,
		IsActive:       data.IsActive,
		IsFeatured:     data.IsFeatured,
		AverageRating:  data.AverageRating,
		ReviewCount:    data.ReviewCount,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
		Images:         images,
	}
}
