package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. The shipping address is flattened
// into ship_* columns; line items hang off the 'order_items' table.
type OrderModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethod  string          `gorm:"type:varchar(30);not null"`
	TaxPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsPaid         bool            `gorm:"not null;default:false"`
	PaidAt         *time.Time
	IsDelivered    bool `gorm:"not null;default:false"`
	DeliveredAt    *time.Time
	Status         string `gorm:"type:varchar(20);not null;default:'pending';index"`
	TrackingNumber string `gorm:"type:varchar(100)"`
	Notes          string `gorm:"type:text"`

	ShipName    string `gorm:"type:varchar(100);not null"`
	ShipPhone   string `gorm:"type:varchar(50)"`
	ShipStreet  string `gorm:"type:varchar(200);not null"`
	ShipCity    string `gorm:"type:varchar(100);not null"`
	ShipState   string `gorm:"type:varchar(100)"`
	ShipZipCode string `gorm:"type:varchar(20)"`
	ShipCountry string `gorm:"type:varchar(100);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
	User  *UserModel       `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Name, price and image are
// frozen copies taken from the product at checkout.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Image     string          `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
