package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table. Inventory lives inline; images
// and reviews hang off their own tables.
type ProductModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string           `gorm:"type:varchar(200);not null"`
	Description    string           `gorm:"type:text"`
	Price          decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	OriginalPrice  *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Category       string           `gorm:"type:varchar(50);not null;index"`
	Brand          string           `gorm:"type:varchar(100)"`
	Quantity       int              `gorm:"not null;default:0"`
	SKU            string           `gorm:"type:varchar(100)"`
	TrackInventory bool             `gorm:"not null;default:true"`
	IsActive       bool             `gorm:"not null;default:true;index"`
	IsFeatured     bool             `gorm:"not null;default:false"`
	AverageRating  float64          `gorm:"not null;default:0"`
	ReviewCount    int              `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Images  []ProductImageModel `gorm:"foreignKey:ProductID"`
	Reviews []ReviewModel       `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// ProductImageModel mirrors the 'product_images' table. Position preserves
// the upload order; the first image is the primary one.
type ProductImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	Alt       string    `gorm:"type:varchar(200)"`
	Ref       string    `gorm:"type:text"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName explicitly sets the table name for GORM.
func (ProductImageModel) TableName() string {
	return "product_images"
}

// ReviewModel mirrors the 'reviews' table. A user reviews a product at most
// once, enforced by the composite unique index.
type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
