package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// FindByID retrieves a single order with its items and owning user preloaded.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// Create persists a new order together with its line items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(err, "order references unknown user or product")
		}

		return errors.Wrap(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i := range order.Items {
		order.Items[i].ID = orderM.Items[i].ID
		order.Items[i].OrderID = orderM.ID
	}

	return nil
}

// Update modifies an existing order entity in the storage. Line items are
// frozen at checkout and never updated here.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Select("*").
		Omit("id", "user_id", "created_at", "Items", "User").
		Updates(orderM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// List returns a page of orders plus the total match count, newest first.
func (repo *orderRepository) List(ctx context.Context, query repository.ListOrdersQuery) ([]entity.Order, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.OrderModel{})

	if query.UserID != nil {
		tx = tx.Where("user_id = ?", *query.UserID)
	}
	if query.Status != nil {
		tx = tx.Where("status = ?", string(*query.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	var orderModels []*model.OrderModel
	if err := tx.
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Offset(pageOffset(query.Page, query.Limit)).
		Limit(pageLimit(query.Limit)).
		Find(&orderModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, *toOrderDomain(orderM))
	}

	return orders, total, nil
}

// Recent returns the latest n orders with their owning users preloaded.
func (repo *orderRepository) Recent(ctx context.Context, n int) ([]entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Limit(n).
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find recent orders")
	}

	orders := make([]entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, *toOrderDomain(orderM))
	}

	return orders, nil
}

// Count returns the total number of orders.
func (repo *orderRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}

	return total, nil
}

// TotalRevenue sums TotalPrice across all non-cancelled orders.
func (repo *orderRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("status <> ?", string(entity.OrderStatusCancelled)).
		Scan(&result).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum order revenue")
	}

	return result.Total, nil
}

// DailyStats returns per-day order counts and revenue since the given time.
func (repo *orderRepository) DailyStats(ctx context.Context, since time.Time) ([]repository.DailyOrderStat, error) {
	var rows []struct {
		Day     time.Time
		Count   int64
		Revenue decimal.Decimal
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("date_trunc('day', created_at) AS day, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("created_at >= ? AND status <> ?", since, string(entity.OrderStatusCancelled)).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query daily order stats")
	}

	stats := make([]repository.DailyOrderStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, repository.DailyOrderStat{
			Day:     row.Day,
			Count:   row.Count,
			Revenue: row.Revenue,
		})
	}

	return stats, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, entity.OrderItem{
			ID:        itemM.ID,
			OrderID:   itemM.OrderID,
			ProductID: itemM.ProductID,
			Name:      itemM.Name,
			Price:     itemM.Price,
			Quantity:  itemM.Quantity,
			Image:     itemM.Image,
		})
	}

	return &entity.Order{
		ID:     data.ID,
		UserID: data.UserID,
		User:   toUserDomain(data.User),
		Items:  items,
		ShippingAddress: entity.ShippingAddress{
			Name:    data.ShipName,
			Phone:   data.ShipPhone,
			Street:  data.ShipStreet,
			City:    data.ShipCity,
			State:   data.ShipState,
			ZipCode: data.ShipZipCode,
			Country: data.ShipCountry,
		},
		PaymentMethod:  entity.PaymentMethod(data.PaymentMethod),
		TaxPrice:       data.TaxPrice,
		ShippingPrice:  data.ShippingPrice,
		TotalPrice:     data.TotalPrice,
		IsPaid:         data.IsPaid,
		PaidAt:         data.PaidAt,
		IsDelivered:    data.IsDelivered,
		DeliveredAt:    data.DeliveredAt,
		Status:         entity.OrderStatus(data.Status),
		TrackingNumber: data.TrackingNumber,
		Notes:          data.Notes,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, model.OrderItemModel{
			ID:        item.ID,
			OrderID:   data.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	return &model.OrderModel{
		ID:             data.ID,
		UserID:         data.UserID,
		PaymentMethod:  string(data.PaymentMethod),
		TaxPrice:       data.TaxPrice,
		ShippingPrice:  data.ShippingPrice,
		TotalPrice:     data.TotalPrice,
		IsPaid:         data.IsPaid,
		PaidAt:         data.PaidAt,
		IsDelivered:    data.IsDelivered,
		DeliveredAt:    data.DeliveredAt,
		Status:         string(data.Status),
		TrackingNumber: data.TrackingNumber,
		Notes:          data.Notes,
		ShipName:       data.ShippingAddress.Name,
		ShipPhone:      data.ShippingAddress.Phone,
		ShipStreet:     data.ShippingAddress.Street,
		ShipCity:       data.ShippingAddress.City,
		ShipState:      data.ShippingAddress.State,
		ShipZipCode:    data.ShippingAddress.ZipCode,
		ShipCountry:    data.ShippingAddress.Country,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
		Items:          items,
	}
}
