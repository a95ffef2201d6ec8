package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/pricing"
	repository "github.com/servease/household-services-platform/internal/repositories"
)

// CartService owns the authoritative line items and derived totals for one
// user session. Every mutation recomputes totals before persisting, so a
// stored cart is never inconsistent with its lines.
type CartService struct {
	repo       repository.CartRepository
	catalog    repository.CatalogRepository
	coupons    *CouponService
	aggregator *pricing.Aggregator
}

func NewCartService(repo repository.CartRepository, catalog repository.CatalogRepository, coupons *CouponService, aggregator *pricing.Aggregator) *CartService {
	return &CartService{repo: repo, catalog: catalog, coupons: coupons, aggregator: aggregator}
}

// GetOrCreateCart returns the session's cart, creating an empty one on the
// first add-to-cart interaction.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	cart = &models.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []models.CartLineItem{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.CreateCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to create cart").WithError(err)
	}

	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

// AddItem looks the service (and optional variant) up in the catalog and
// either appends a line or merges quantities into the line with the same
// service and variant.
func (s *CartService) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.Cart, error) {

	if req.Quantity < 1 {
		return nil, apperrors.AddValidationError("quantity", "must be at least 1")
	}

	svc, err := s.catalog.GetServiceByRef(ctx, req.ServiceRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Service not found: " + req.ServiceRef).WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch service").WithError(err)
	}

	line := models.CartLineItem{
		ID:              uuid.New(),
		ServiceID:       svc.ID.String(),
		ServiceName:     svc.Name,
		CategoryID:      svc.CategoryID,
		SubcategoryID:   svc.SubcategoryID,
		Quantity:        req.Quantity,
		BasePrice:       svc.BasePrice,
		DiscountedPrice: svc.DiscountedPrice,
		DurationMinutes: svc.DurationMinutes,
		GSTPercentage:   svc.GSTPercentage,
	}

	if req.VariantRef != "" {
		variant, err := s.catalog.GetVariantByRef(ctx, svc.ID.String(), req.VariantRef)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.NotFoundError("Variant not found: " + req.VariantRef).WithError(err)
			}

			return nil, apperrors.DatabaseError("Failed to fetch variant").WithError(err)
		}

		line.VariantID = variant.ID.String()
		line.VariantName = variant.Name
		line.BasePrice = variant.BasePrice
		line.DiscountedPrice = variant.DiscountedPrice
		line.DurationMinutes = variant.DurationMinutes
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false

	for idx := range cart.Items {
		if cart.Items[idx].SameLine(line.ServiceID, line.VariantID) {
			cart.Items[idx].Quantity += req.Quantity
			cart.Items[idx].TotalPrice = pricing.LineTotal(&cart.Items[idx])
			merged = true

			break
		}
	}

	if !merged {
		line.TotalPrice = pricing.LineTotal(&line)
		cart.Items = append(cart.Items, line)
	}

	return s.saveRecomputed(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, lineItemID uuid.UUID) (*models.Cart, error) {

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(lineItemID)
	if idx < 0 {
		return nil, apperrors.NotFoundError("Item not found in the cart")
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	return s.saveRecomputed(ctx, cart)
}

// UpdateQuantity sets the line's quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, lineItemID uuid.UUID, quantity int) (*models.Cart, error) {

	if quantity < 0 {
		return nil, apperrors.AddValidationError("quantity", "must not be negative")
	}

	if quantity == 0 {
		return s.RemoveItem(ctx, userID, lineItemID)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(lineItemID)
	if idx < 0 {
		return nil, apperrors.NotFoundError("Item not found in the cart")
	}

	cart.Items[idx].Quantity = quantity
	cart.Items[idx].TotalPrice = pricing.LineTotal(&cart.Items[idx])

	return s.saveRecomputed(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {

	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		return apperrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

// ApplyCoupon is idempotent: re-applying the already-applied code is a no-op
// success.
func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (*models.Cart, error) {

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(cart.AppliedCouponCode, code) {
		return cart, nil
	}

	_, result, err := s.coupons.Evaluate(ctx, cart.Items, code)
	if err != nil {
		return nil, err
	}

	cart.AppliedCouponCode = result.CouponCode
	cart.CouponResult = result

	return s.saveRecomputed(ctx, cart)
}

// RemoveCoupon is idempotent: removing when none is applied is a no-op
// success.
func (s *CartService) RemoveCoupon(ctx context.Context, userID string) (*models.Cart, error) {

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart.AppliedCouponCode == "" {
		return cart, nil
	}

	cart.AppliedCouponCode = ""
	cart.CouponResult = nil

	return s.saveRecomputed(ctx, cart)
}

// saveRecomputed re-evaluates any applied coupon against the mutated lines,
// recomputes all totals and persists. A coupon that no longer applies is
// dropped rather than failing the mutation.
func (s *CartService) saveRecomputed(ctx context.Context, cart *models.Cart) (*models.Cart, error) {

	if cart.AppliedCouponCode != "" {
		_, result, err := s.coupons.Evaluate(ctx, cart.Items, cart.AppliedCouponCode)
		if err != nil {
			if appErr, ok := apperrors.IsAppError(err); ok && appErr.Code != apperrors.ErrCodeDatabaseError {
				slog.Info("Dropping coupon no longer applicable to cart",
					slog.String("coupon", cart.AppliedCouponCode),
					slog.String("reason", appErr.Code),
				)

				cart.AppliedCouponCode = ""
				cart.CouponResult = nil
			} else {
				return nil, err
			}
		} else {
			cart.CouponResult = result
		}
	}

	totals := s.aggregator.Compute(cart.Items, cart.CouponResult)
	totals.ApplyTo(cart)

	cart.UpdatedAt = time.Now()

	if err := s.repo.UpdateCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}
