package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/utils"
)

type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error)
	UpdateCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	couponJSON, err := json.Marshal(cart.CouponResult)
	if err != nil {
		return fmt.Errorf("failed to marshal coupon result: %w", err)
	}

	query := `
		INSERT INTO carts (id, user_id, items, subtotal, discount_amount, gst_amount, service_charge_amount, final_amount, applied_coupon_code, coupon_result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		cart.ID, cart.UserID, itemsJSON,
		cart.Subtotal, cart.DiscountAmount, cart.GSTAmount, cart.ServiceChargeAmount, cart.FinalAmount,
		cart.AppliedCouponCode, couponJSON,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, items, subtotal, discount_amount, gst_amount, service_charge_amount, final_amount, applied_coupon_code, coupon_result, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &models.Cart{}

	var itemsJSON, couponJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(
		&cart.ID, &cart.UserID, &itemsJSON,
		&cart.Subtotal, &cart.DiscountAmount, &cart.GSTAmount, &cart.ServiceChargeAmount, &cart.FinalAmount,
		&cart.AppliedCouponCode, &couponJSON, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart items: %w", err)
	}

	if len(couponJSON) > 0 && string(couponJSON) != "null" {
		if err := json.Unmarshal(couponJSON, &cart.CouponResult); err != nil {
			return nil, fmt.Errorf("failed to unmarshal coupon result: %w", err)
		}
	}

	return cart, nil
}

func (r *cartRepository) UpdateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	couponJSON, err := json.Marshal(cart.CouponResult)
	if err != nil {
		return fmt.Errorf("failed to marshal coupon result: %w", err)
	}

	query := `
		UPDATE carts
		SET items = $1, subtotal = $2, discount_amount = $3, gst_amount = $4, service_charge_amount = $5, final_amount = $6, applied_coupon_code = $7, coupon_result = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.DB.ExecContext(dbCtx, query,
		itemsJSON, cart.Subtotal, cart.DiscountAmount, cart.GSTAmount, cart.ServiceChargeAmount, cart.FinalAmount,
		cart.AppliedCouponCode, couponJSON, time.Now(), cart.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update the cart: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, userID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM carts WHERE user_id = $1`

	_, err := r.DB.ExecContext(dbCtx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete the cart: %w", err)
	}

	return nil
}
