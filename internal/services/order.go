package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/models"
	repository "github.com/servease/household-services-platform/internal/repositories"
)

type OrderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {

	if len(req.Items) == 0 {
		return nil, apperrors.BadRequestError("Cannot create order with no items")
	}

	order := &models.Order{
		ID:                  uuid.New(),
		CustomerID:          req.CustomerID,
		Status:              models.OrderStatusPending,
		Subtotal:            req.Subtotal,
		DiscountAmount:      req.DiscountAmount,
		GSTAmount:           req.GSTAmount,
		ServiceChargeAmount: req.ServiceChargeAmount,
		FinalAmount:         req.FinalAmount,
		CouponCode:          req.CouponCode,
		Address:             &req.Address,
		Notes:               req.Notes,
		ScheduledDate:       req.ScheduledDate,
		TimeSlot:            req.TimeSlot,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	items := make([]models.ResolvedOrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		item.ID = uuid.New()
		item.OrderID = order.ID
		item.Status = models.OrderItemStatusPending
		item.CreatedAt = time.Now()
		items = append(items, item)
	}

	order.Items = items

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, apperrors.DatabaseError("Failed to create order").WithError(err)
	}

	return order, nil
}

// PlaceOrder satisfies the checkout orchestrator's OrderPlacer in the
// monolith wiring.
func (s *OrderService) PlaceOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	return s.CreateOrder(ctx, req)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *OrderService) ListOrdersByCustomer(ctx context.Context, customerID string, page, size int) (*models.OrderHistoryResponse, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 20 {
		size = 10
	}

	orders, total, err := s.repo.ListOrdersByCustomer(ctx, customerID, page, size)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return &models.OrderHistoryResponse{
		Orders: orders,
		Total:  total,
		Page:   page,
		Size:   size,
	}, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	if _, err := s.GetOrderByID(ctx, id); err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to update order status").WithError(err)
	}

	return order, nil
}

// CancelOrder moves a pending or confirmed order to cancelled; later states
// cannot be cancelled by the customer.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID, customerID string) (*models.Order, error) {

	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, apperrors.ForbiddenError("Order belongs to another customer")
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return nil, apperrors.BadRequestError("Order can no longer be cancelled")
	}

	cancelled, err := s.repo.UpdateOrderStatus(ctx, id, models.OrderStatusCancelled)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to cancel order").WithError(err)
	}

	return cancelled, nil
}
