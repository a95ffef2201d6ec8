package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/utils"
)

type CouponRepository interface {
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListActiveCoupons(ctx context.Context) ([]models.Coupon, error)
}

type couponRepository struct {
	DB *sql.DB
}

func NewCouponRepo(db *sql.DB) CouponRepository {
	return &couponRepository{DB: db}
}

// GetCouponByCode matches the code case-insensitively; codes are unique
// under LOWER(code).
func (r *couponRepository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, code, description, discount_type, value, maximum_discount_amount, valid_from, valid_until, is_active, applicable_category_ids, applicable_service_ids, created_at, updated_at
		FROM coupons
		WHERE LOWER(code) = LOWER($1)
	`

	coupon := &models.Coupon{}

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(
		&coupon.ID, &coupon.Code, &coupon.Description, &coupon.DiscountType, &coupon.Value,
		&coupon.MaximumDiscountAmount, &coupon.ValidFrom, &coupon.ValidUntil, &coupon.IsActive,
		pq.Array(&coupon.ApplicableCategoryIDs), pq.Array(&coupon.ApplicableServiceIDs),
		&coupon.CreatedAt, &coupon.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return coupon, nil
}

func (r *couponRepository) ListActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, code, description, discount_type, value, maximum_discount_amount, valid_from, valid_until, is_active, applicable_category_ids, applicable_service_ids, created_at, updated_at
		FROM coupons
		WHERE is_active = true AND valid_from <= NOW() AND valid_until >= NOW()
		ORDER BY valid_until ASC
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	var coupons []models.Coupon

	for rows.Next() {
		var coupon models.Coupon

		err := rows.Scan(
			&coupon.ID, &coupon.Code, &coupon.Description, &coupon.DiscountType, &coupon.Value,
			&coupon.MaximumDiscountAmount, &coupon.ValidFrom, &coupon.ValidUntil, &coupon.IsActive,
			pq.Array(&coupon.ApplicableCategoryIDs), pq.Array(&coupon.ApplicableServiceIDs),
			&coupon.CreatedAt, &coupon.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon row: %w", err)
		}

		coupons = append(coupons, coupon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coupon rows: %w", err)
	}

	return coupons, nil
}
