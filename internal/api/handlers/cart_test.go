package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servease/household-services-platform/internal/api/handlers"
	"github.com/servease/household-services-platform/internal/api/middleware"
	"github.com/servease/household-services-platform/internal/config"
	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/pricing"
	repository "github.com/servease/household-services-platform/internal/repositories"
	service "github.com/servease/household-services-platform/internal/services"
	"github.com/servease/household-services-platform/internal/utils/response"
)

type cartHandlerFixture struct {
	cartRepo   *repository.MockCartRepository
	catalog    *repository.MockCatalogRepository
	couponRepo *repository.MockCouponRepository
	handler    *handlers.CartHandler
	userID     uuid.UUID
}

func newCartHandlerFixture() *cartHandlerFixture {
	cartRepo := repository.NewMockCartRepository()
	catalog := repository.NewMockCatalogRepository()
	couponRepo := repository.NewMockCouponRepository()

	aggregator := pricing.NewAggregator(&config.Pricing{ServiceChargePerCategory: 49})
	coupons := service.NewCouponService(couponRepo, nil, 0, aggregator)
	carts := service.NewCartService(cartRepo, catalog, coupons, aggregator)

	return &cartHandlerFixture{
		cartRepo:   cartRepo,
		catalog:    catalog,
		couponRepo: couponRepo,
		handler:    handlers.NewCartHandler(carts),
		userID:     uuid.New(),
	}
}

// authenticated attaches claims the way the auth middleware does.
func (fx *cartHandlerFixture) authenticated(req *http.Request) *http.Request {
	claims := &models.Claims{UserID: fx.userID}

	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var env response.APIResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Success - Returns The Cart In The Envelope", func(t *testing.T) {
		// Arrange
		fx := newCartHandlerFixture()

		cart := &models.Cart{
			ID:        uuid.New(),
			UserID:    fx.userID.String(),
			Items:     []models.CartLineItem{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		fx.cartRepo.On("GetCartByUserID", mock.Anything, fx.userID.String()).Return(cart, nil).Once()

		req := fx.authenticated(httptest.NewRequest(http.MethodGet, "/api/cart", nil))
		rec := httptest.NewRecorder()

		// Act
		fx.handler.GetCart()(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.Nil(t, env.Error)
		fx.cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Unauthenticated Request Gets 401 Envelope", func(t *testing.T) {
		fx := newCartHandlerFixture()

		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		rec := httptest.NewRecorder()

		fx.handler.GetCart()(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})
}

func TestAddItemHandler(t *testing.T) {
	t.Run("Failure - Missing Service Ref Fails Validation", func(t *testing.T) {
		fx := newCartHandlerFixture()

		body, _ := json.Marshal(map[string]any{"quantity": 1})
		req := fx.authenticated(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body)))
		rec := httptest.NewRecorder()

		fx.handler.AddItem()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		fx.catalog.AssertNotCalled(t, "GetServiceByRef", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Service Maps To 404", func(t *testing.T) {
		fx := newCartHandlerFixture()

		fx.catalog.On("GetServiceByRef", mock.Anything, "no-such").Return(nil, sql.ErrNoRows).Once()

		body, _ := json.Marshal(models.AddItemRequest{ServiceRef: "no-such", Quantity: 1})
		req := fx.authenticated(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body)))
		rec := httptest.NewRecorder()

		fx.handler.AddItem()(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestApplyCouponHandler(t *testing.T) {
	t.Run("Failure - Rejected Coupon Carries Its Error Code", func(t *testing.T) {
		fx := newCartHandlerFixture()

		cart := &models.Cart{
			ID:     uuid.New(),
			UserID: fx.userID.String(),
			Items:  []models.CartLineItem{{ID: uuid.New(), Quantity: 1, BasePrice: 500, TotalPrice: 500}},
		}
		fx.cartRepo.On("GetCartByUserID", mock.Anything, fx.userID.String()).Return(cart, nil).Once()
		fx.couponRepo.On("GetCouponByCode", mock.Anything, "EXPIRED1").Return(&models.Coupon{
			Code:       "EXPIRED1",
			IsActive:   true,
			ValidFrom:  time.Now().Add(-48 * time.Hour),
			ValidUntil: time.Now().Add(-24 * time.Hour),
		}, nil).Once()

		body, _ := json.Marshal(models.ApplyCouponRequest{CouponCode: "EXPIRED1"})
		req := fx.authenticated(httptest.NewRequest(http.MethodPost, "/api/cart/coupon", bytes.NewReader(body)))
		rec := httptest.NewRecorder()

		fx.handler.ApplyCoupon()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "COUPON_EXPIRED", env.Error.Code)
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	t.Run("Failure - Malformed Line Item ID", func(t *testing.T) {
		fx := newCartHandlerFixture()

		body, _ := json.Marshal(models.UpdateQuantityRequest{Quantity: 2})
		req := fx.authenticated(httptest.NewRequest(http.MethodPut, "/api/cart/items/not-a-uuid", bytes.NewReader(body)))
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()

		fx.handler.UpdateQuantity()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
	})
}
