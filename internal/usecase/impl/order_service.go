package impl

import (
	"context"
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

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	publisher service.EventPublisher
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder places an order. Snapshot freezing, total derivation and the
// guarded inventory decrements all happen inside one transaction, so a
// failing line item leaves no partial state behind.
func (srv *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, input usecase.CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "orderItems",
			Message: "order must contain at least one item",
		})
	}
	if !input.PaymentMethod.IsValid() {
		return nil, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "paymentMethod",
			Message: "unknown payment method",
		})
	}

	order := &entity.Order{
		UserID:          userID,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		Status:          entity.OrderStatusPending,
		Notes:           input.Notes,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		orderRepo := repoFactory.NewOrderRepository()

		for _, item := range input.Items {
			if item.Quantity < 1 {
				return domainerrors.NewValidationError(domainerrors.FieldError{
					Field:   "orderItems",
					Message: "item quantity must be at least 1",
				})
			}

			product, err := productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductNotFound.WithDetails(item.ProductID.String())
				}

				return errors.Wrap(err, "failed to load product")
			}

			if !product.IsActive {
				return domainerrors.ErrProductUnavailable.WithDetails(product.Name)
			}

			// The guarded decrement is the stock check. Checking HasStock
			// first only improves the error before the guard fires.
			if !product.HasStock(item.Quantity) {
				return domainerrors.ErrInsufficientInventory.WithDetails(product.Name)
			}

			if err := productRepo.AdjustInventory(ctx, product.ID, -item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return domainerrors.ErrInsufficientInventory.WithDetails(product.Name)
				}

				return errors.Wrap(err, "failed to decrement inventory")
			}

			order.Items = append(order.Items, entity.OrderItem{
				ID:        uuid.New(),
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  item.Quantity,
				Image:     product.PrimaryImageURL(),
			})
		}

		order.ComputeTotal()

		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order created",
		slog.Any("orderID", order.ID),
		slog.Any("userID", userID),
		slog.String("total", order.TotalPrice.String()))

	srv.publishEvent(ctx, &service.OrderEvent{
		Type:       service.OrderEventCreated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Total:      order.TotalPrice.String(),
		OccurredAt: time.Now(),
	})

	return order, nil
}

// GetOrder returns an order to its owner or to an administrator.
func (srv *orderService) GetOrder(ctx context.Context, requester *entity.User, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requester.ID && !requester.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	return order, nil
}

// ListMyOrders returns the requester's orders, newest first.
func (srv *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*usecase.OrderPage, error) {
	orders, total, err := srv.orderRepo.List(ctx, repository.ListOrdersQuery{
		Page:   page,
		Limit:  limit,
		UserID: &userID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.OrderPage{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// CancelOrder cancels an order and restores tracked inventory transactionally.
func (srv *orderService) CancelOrder(ctx context.Context, requester *entity.User, orderID uuid.UUID) (*entity.Order, error) {
	var cancelled *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()
		productRepo := repoFactory.NewProductRepository()

		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to load order")
		}

		if order.UserID != requester.ID && !requester.IsAdmin() {
			return domainerrors.ErrForbidden
		}

		// Owners may cancel only early states; admins anything non-terminal.
		if requester.IsAdmin() {
			if order.Status.IsTerminal() {
				return domainerrors.ErrInvalidOrderState.WithDetails(string(order.Status))
			}
		} else if !order.Status.UserCancellable() {
			return domainerrors.ErrInvalidOrderState.WithDetails(string(order.Status))
		}

		// Restore only tracked inventory; untracked products never decremented.
		for _, item := range order.Items {
			if err := productRepo.AdjustInventory(ctx, item.ProductID, item.Quantity); err != nil {
				return errors.Wrap(err, "failed to restore inventory")
			}
		}

		order.Status = entity.OrderStatusCancelled
		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order")
		}

		cancelled = order

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order cancelled",
		slog.Any("orderID", cancelled.ID),
		slog.Any("requesterID", requester.ID))

	srv.publishEvent(ctx, &service.OrderEvent{
		Type:       service.OrderEventCancelled,
		OrderID:    cancelled.ID,
		UserID:     cancelled.UserID,
		Status:     string(cancelled.Status),
		Total:      cancelled.TotalPrice.String(),
		OccurredAt: time.Now(),
	})

	return cancelled, nil
}

// ListOrders returns a page across all users.
func (srv *orderService) ListOrders(ctx context.Context, input usecase.ListOrdersInput) (*usecase.OrderPage, error) {
	orders, total, err := srv.orderRepo.List(ctx, repository.ListOrdersQuery{
		Page:   input.Page,
		Limit:  input.Limit,
		Status: input.Status,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.OrderPage{Orders: orders, Total: total, Page: input.Page, Limit: input.Limit}, nil
}

// UpdateOrderStatus applies an admin transition. Cancelling through this
// path restores inventory just like CancelOrder.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, input usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if !input.Status.IsValid() {
		return nil, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "status",
			Message: "unknown order status",
		})
	}

	var updated *entity.Order
	var prevStatus entity.OrderStatus

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()
		productRepo := repoFactory.NewProductRepository()

		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to load order")
		}

		prevStatus = order.Status

		// Terminal states accept no further transitions.
		if order.Status.IsTerminal() && input.Status != order.Status {
			return domainerrors.ErrInvalidOrderState.WithDetails(string(order.Status))
		}

		if input.Status == entity.OrderStatusCancelled && prevStatus != entity.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := productRepo.AdjustInventory(ctx, item.ProductID, item.Quantity); err != nil {
					return errors.Wrap(err, "failed to restore inventory")
				}
			}
		}

		order.Status = input.Status
		if input.Status == entity.OrderStatusDelivered {
			order.MarkDelivered(time.Now())
		}
		if input.TrackingNumber != nil {
			order.TrackingNumber = *input.TrackingNumber
		}
		if input.Notes != nil {
			order.Notes = *input.Notes
		}

		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order")
		}

		updated = order

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order status updated",
		slog.Any("orderID", updated.ID),
		slog.String("from", string(prevStatus)),
		slog.String("to", string(updated.Status)))

	if updated.Status != prevStatus {
		eventType := service.OrderEventStatusChanged
		if updated.Status == entity.OrderStatusCancelled {
			eventType = service.OrderEventCancelled
		}
		srv.publishEvent(ctx, &service.OrderEvent{
			Type:       eventType,
			OrderID:    updated.ID,
			UserID:     updated.UserID,
			Status:     string(updated.Status),
			PrevStatus: string(prevStatus),
			Total:      updated.TotalPrice.String(),
			OccurredAt: time.Now(),
		})
	}

	return updated, nil
}

func (srv *orderService) findOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

// publishEvent sends an order event best-effort; a broker failure never
// fails the request that already committed.
func (srv *orderService) publishEvent(ctx context.Context, event *service.OrderEvent) {
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event",
			slog.String("type", event.Type),
			slog.Any("orderID", event.OrderID),
			slog.Any("error", err))
	}
}
