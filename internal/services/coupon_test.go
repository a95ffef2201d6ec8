package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servease/household-services-platform/internal/config"
	appErrors "github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/pricing"
	repository "github.com/servease/household-services-platform/internal/repositories"
	service "github.com/servease/household-services-platform/internal/services"
)

func testAggregator() *pricing.Aggregator {
	return pricing.NewAggregator(&config.Pricing{ServiceChargePerCategory: 49})
}

func validCoupon(code string) *models.Coupon {
	return &models.Coupon{
		ID:           uuid.New(),
		Code:         code,
		DiscountType: models.DiscountTypePercentage,
		Value:        10,
		ValidFrom:    time.Now().Add(-time.Hour),
		ValidUntil:   time.Now().Add(time.Hour),
		IsActive:     true,
	}
}

func cartLine(category, serviceID string, total float64) models.CartLineItem {
	return models.CartLineItem{
		ID:         uuid.New(),
		ServiceID:  serviceID,
		CategoryID: category,
		Quantity:   1,
		BasePrice:  total,
		TotalPrice: total,
	}
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - Coupon Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())
		mockRepo.On("GetCouponByCode", mock.Anything, "NOPE").Return(nil, sql.ErrNoRows).Once()

		// Act
		_, _, err := couponService.Evaluate(ctx, []models.CartLineItem{cartLine("cleaning", "svc-1", 100)}, "NOPE")

		// Assert
		assert.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeCouponNotFound, appErr.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Inactive", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		coupon := validCoupon("SAVE10")
		coupon.IsActive = false
		mockRepo.On("GetCouponByCode", mock.Anything, "SAVE10").Return(coupon, nil).Once()

		_, _, err := couponService.Evaluate(ctx, []models.CartLineItem{cartLine("cleaning", "svc-1", 100)}, "SAVE10")

		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeCouponInactive, appErr.Code)
	})

	t.Run("Failure - Expired", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		coupon := validCoupon("SAVE10")
		coupon.ValidUntil = time.Now().Add(-time.Minute)
		mockRepo.On("GetCouponByCode", mock.Anything, "SAVE10").Return(coupon, nil).Once()

		_, _, err := couponService.Evaluate(ctx, []models.CartLineItem{cartLine("cleaning", "svc-1", 100)}, "SAVE10")

		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeCouponExpired, appErr.Code)
	})

	t.Run("Failure - Not Yet Valid", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		coupon := validCoupon("SAVE10")
		coupon.ValidFrom = time.Now().Add(time.Hour)
		coupon.ValidUntil = time.Now().Add(2 * time.Hour)
		mockRepo.On("GetCouponByCode", mock.Anything, "SAVE10").Return(coupon, nil).Once()

		_, _, err := couponService.Evaluate(ctx, []models.CartLineItem{cartLine("cleaning", "svc-1", 100)}, "SAVE10")

		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeCouponNotYetValid, appErr.Code)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		mockRepo.On("GetCouponByCode", mock.Anything, "SAVE10").Return(validCoupon("SAVE10"), nil).Once()

		_, _, err := couponService.Evaluate(ctx, nil, "SAVE10")

		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeEmptyCart, appErr.Code)
	})

	t.Run("Failure - No Eligible Items", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		coupon := validCoupon("CLEAN10")
		coupon.ApplicableCategoryIDs = []string{"cleaning"}
		mockRepo.On("GetCouponByCode", mock.Anything, "CLEAN10").Return(coupon, nil).Once()

		_, _, err := couponService.Evaluate(ctx, []models.CartLineItem{cartLine("plumbing", "svc-2", 100)}, "CLEAN10")

		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.ErrCodeNoEligibleItems, appErr.Code)
	})

	t.Run("Success - Unrestricted Coupon Covers Whole Cart", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		mockRepo.On("GetCouponByCode", mock.Anything, "SAVE10").Return(validCoupon("SAVE10"), nil).Once()

		items := []models.CartLineItem{
			cartLine("cleaning", "svc-1", 600),
			cartLine("plumbing", "svc-2", 400),
		}

		coupon, result, err := couponService.Evaluate(ctx, items, "SAVE10")

		assert.NoError(t, err)
		assert.NotNil(t, coupon)
		assert.Equal(t, 2, result.EligibleItemsCount)
		assert.Equal(t, 0, result.IneligibleItems)
		assert.False(t, result.IsPartiallyApplied)
		assert.Equal(t, 1000.0, result.EligibleAmount)
		assert.Equal(t, 100.0, result.DiscountAmount)
	})

	t.Run("Success - Partial Application", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		coupon := validCoupon("CLEAN10")
		coupon.ApplicableCategoryIDs = []string{"cleaning"}
		mockRepo.On("GetCouponByCode", mock.Anything, "CLEAN10").Return(coupon, nil).Once()

		items := []models.CartLineItem{
			cartLine("cleaning", "svc-1", 600),
			cartLine("plumbing", "svc-2", 400),
		}

		_, result, err := couponService.Evaluate(ctx, items, "CLEAN10")

		assert.NoError(t, err)
		assert.True(t, result.IsPartiallyApplied)
		assert.Equal(t, 1, result.EligibleItemsCount)
		assert.Equal(t, 1, result.IneligibleItems)
		assert.Equal(t, 600.0, result.EligibleAmount)
		assert.Equal(t, 60.0, result.DiscountAmount)
	})

	t.Run("Success - Percentage Capped By Maximum Discount", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		maxDiscount := 150.0
		coupon := validCoupon("BIG20")
		coupon.Value = 20
		coupon.MaximumDiscountAmount = &maxDiscount
		mockRepo.On("GetCouponByCode", mock.Anything, "BIG20").Return(coupon, nil).Once()

		_, result, err := couponService.Evaluate(ctx, []models.CartLineItem{cartLine("cleaning", "svc-1", 1000)}, "BIG20")

		assert.NoError(t, err)
		assert.Equal(t, 150.0, result.DiscountAmount)
		assert.LessOrEqual(t, result.DiscountAmount, result.EligibleAmount)
	})
}

func TestValidateCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid Coupon For Amount", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		mockRepo.On("GetCouponByCode", mock.Anything, "SAVE10").Return(validCoupon("SAVE10"), nil).Once()

		result, err := couponService.ValidateCoupon(ctx, &models.ValidateCouponRequest{
			CouponCode: "SAVE10",
			ServiceID:  "svc-1",
			Amount:     500,
		})

		assert.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, 50.0, result.DiscountAmount)
	})

	t.Run("Rejection Reported As Invalid Not Error", func(t *testing.T) {
		mockRepo := repository.NewMockCouponRepository()
		couponService := service.NewCouponService(mockRepo, nil, 0, testAggregator())

		mockRepo.On("GetCouponByCode", mock.Anything, "NOPE").Return(nil, sql.ErrNoRows).Once()

		result, err := couponService.ValidateCoupon(ctx, &models.ValidateCouponRequest{
			CouponCode: "NOPE",
			Amount:     500,
		})

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.Reason)
	})
}
