package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/servease/household-services-platform/internal/cache"
	apperrors "github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/pricing"
	repository "github.com/servease/household-services-platform/internal/repositories"
)

// CouponService decides whether a coupon applies to a cart and to which
// lines. Validation short-circuits in a fixed order: existence, active flag,
// validity window, non-empty cart, then eligibility.
type CouponService struct {
	repo       repository.CouponRepository
	cache      cache.Cache
	cacheTTL   time.Duration
	aggregator *pricing.Aggregator

	// now is swappable for window tests.
	now func() time.Time
}

func NewCouponService(repo repository.CouponRepository, cacheStore cache.Cache, cacheTTL time.Duration, aggregator *pricing.Aggregator) *CouponService {
	return &CouponService{
		repo:       repo,
		cache:      cacheStore,
		cacheTTL:   cacheTTL,
		aggregator: aggregator,
		now:        time.Now,
	}
}

func (s *CouponService) fetchCoupon(ctx context.Context, code string) (*models.Coupon, error) {

	cacheKey := cache.Key(cache.CouponKeyPrefix, strings.ToLower(code))

	if s.cache != nil {
		var cached models.Coupon

		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// cache miss is fine, a failed write only costs the next lookup
		_ = s.cache.Set(ctx, cacheKey, coupon, s.cacheTTL)
	}

	return coupon, nil
}

// Evaluate runs the full validation chain for the candidate code against the
// cart's line items and returns the coupon with its application result, or
// the first rejection.
func (s *CouponService) Evaluate(ctx context.Context, items []models.CartLineItem, code string) (*models.Coupon, *models.CouponApplicationResult, error) {

	coupon, err := s.fetchCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperrors.CouponNotFoundError(code)
		}

		return nil, nil, apperrors.DatabaseError("Failed to look up coupon").WithError(err)
	}

	if !coupon.IsActive {
		return nil, nil, apperrors.CouponInactiveError(coupon.Code)
	}

	now := s.now()

	if now.Before(coupon.ValidFrom) {
		return nil, nil, apperrors.CouponNotYetValidError(coupon.Code)
	}

	if now.After(coupon.ValidUntil) {
		return nil, nil, apperrors.CouponExpiredError(coupon.Code)
	}

	if len(items) == 0 {
		return nil, nil, apperrors.EmptyCartError()
	}

	eligibleCount := 0
	eligibleAmount := decimal.Zero

	for idx := range items {
		if coupon.AppliesTo(&items[idx]) {
			eligibleCount++
			eligibleAmount = eligibleAmount.Add(decimal.NewFromFloat(items[idx].TotalPrice))
		}
	}

	// A coupon that touches nothing is a rejection, not a zero discount.
	if eligibleCount == 0 {
		return nil, nil, apperrors.NoEligibleItemsError(coupon.Code)
	}

	ineligibleCount := len(items) - eligibleCount

	result := &models.CouponApplicationResult{
		CouponCode:         coupon.Code,
		EligibleItemsCount: eligibleCount,
		IneligibleItems:    ineligibleCount,
		EligibleAmount:     eligibleAmount.InexactFloat64(),
		DiscountAmount:     s.aggregator.Discount(coupon, eligibleAmount).InexactFloat64(),
		IsPartiallyApplied: ineligibleCount > 0,
	}

	return coupon, result, nil
}

func (s *CouponService) ListActiveCoupons(ctx context.Context) ([]models.Coupon, error) {

	coupons, err := s.repo.ListActiveCoupons(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch coupons").WithError(err)
	}

	return coupons, nil
}

// ValidateCoupon answers the standalone validation endpoint: it checks the
// code against a single service and amount without a full cart.
func (s *CouponService) ValidateCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, error) {

	item := models.CartLineItem{
		ServiceID:  req.ServiceID,
		Quantity:   1,
		BasePrice:  req.Amount,
		TotalPrice: req.Amount,
	}

	_, result, err := s.Evaluate(ctx, []models.CartLineItem{item}, req.CouponCode)
	if err != nil {
		if appErr, ok := apperrors.IsAppError(err); ok && appErr.Code != apperrors.ErrCodeDatabaseError {
			return &models.ValidateCouponResponse{
				Valid:  false,
				Code:   req.CouponCode,
				Reason: appErr.Message,
			}, nil
		}

		return nil, err
	}

	return &models.ValidateCouponResponse{
		Valid:          true,
		Code:           result.CouponCode,
		DiscountAmount: result.DiscountAmount,
	}, nil
}
