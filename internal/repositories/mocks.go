package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/servease/household-services-platform/internal/models"
)

// Testify-backed fakes for service-level tests.

type MockCartRepository struct {
	mock.Mock
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{}
}

func (m *MockCartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *MockCartRepository) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCartRepository) UpdateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *MockCartRepository) DeleteCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{}
}

func (m *MockCouponRepository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)

	if coupon, ok := args.Get(0).(*models.Coupon); ok {
		return coupon, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCouponRepository) ListActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	args := m.Called(ctx)

	if coupons, ok := args.Get(0).([]models.Coupon); ok {
		return coupons, args.Error(1)
	}

	return nil, args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByCustomer(ctx context.Context, customerID string, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, customerID, page, size)

	if orders, ok := args.Get(0).([]models.Order); ok {
		return orders, args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)

	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{}
}

func (m *MockCatalogRepository) GetServiceByRef(ctx context.Context, ref string) (*models.CatalogService, error) {
	args := m.Called(ctx, ref)

	if svc, ok := args.Get(0).(*models.CatalogService); ok {
		return svc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCatalogRepository) GetVariantByRef(ctx context.Context, serviceID, ref string) (*models.ServiceVariant, error) {
	args := m.Called(ctx, serviceID, ref)

	if variant, ok := args.Get(0).(*models.ServiceVariant); ok {
		return variant, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCatalogRepository) ResolveRef(ctx context.Context, kind, ref string) (string, error) {
	args := m.Called(ctx, kind, ref)

	return args.String(0), args.Error(1)
}

func (m *MockCatalogRepository) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	args := m.Called(ctx)

	if slots, ok := args.Get(0).([]models.TimeSlot); ok {
		return slots, args.Error(1)
	}

	return nil, args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{}
}

func (m *MockAddressRepository) GetAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	args := m.Called(ctx, id)

	if address, ok := args.Get(0).(*models.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockAddressRepository) ListAddressesByUser(ctx context.Context, userID string) ([]models.Address, error) {
	args := m.Called(ctx, userID)

	if addresses, ok := args.Get(0).([]models.Address); ok {
		return addresses, args.Error(1)
	}

	return nil, args.Error(1)
}
