package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/utils"
)

type CatalogRepository interface {
	GetServiceByRef(ctx context.Context, ref string) (*models.CatalogService, error)
	GetVariantByRef(ctx context.Context, serviceID, ref string) (*models.ServiceVariant, error)
	ResolveRef(ctx context.Context, kind, ref string) (string, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
}

type catalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepo(db *sql.DB) CatalogRepository {
	return &catalogRepository{DB: db}
}

// GetServiceByRef accepts either the canonical id or the human-facing slug.
func (r *catalogRepository) GetServiceByRef(ctx context.Context, ref string) (*models.CatalogService, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, slug, name, category_id, subcategory_id, base_price, discounted_price, duration_minutes, gst_percentage, is_active, created_at, updated_at
		FROM services
		WHERE (id::text = $1 OR slug = $1) AND is_active = true
	`

	svc := &models.CatalogService{}

	err := r.DB.QueryRowContext(dbCtx, query, ref).Scan(
		&svc.ID, &svc.Slug, &svc.Name, &svc.CategoryID, &svc.SubcategoryID,
		&svc.BasePrice, &svc.DiscountedPrice, &svc.DurationMinutes, &svc.GSTPercentage,
		&svc.IsActive, &svc.CreatedAt, &svc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return svc, nil
}

func (r *catalogRepository) GetVariantByRef(ctx context.Context, serviceID, ref string) (*models.ServiceVariant, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, service_id, slug, name, base_price, discounted_price, duration_minutes
		FROM service_variants
		WHERE service_id = $1 AND (id::text = $2 OR slug = $2)
	`

	variant := &models.ServiceVariant{}

	err := r.DB.QueryRowContext(dbCtx, query, serviceID, ref).Scan(
		&variant.ID, &variant.ServiceID, &variant.Slug, &variant.Name,
		&variant.BasePrice, &variant.DiscountedPrice, &variant.DurationMinutes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return variant, nil
}

// ResolveRef maps a human-facing slug to the canonical identifier for the
// given kind. Backs GET /api/config/resolve/{kind}/{ref}.
func (r *catalogRepository) ResolveRef(ctx context.Context, kind, ref string) (string, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var query string

	switch kind {
	case "service":
		query = `SELECT id FROM services WHERE slug = $1`
	case "category":
		query = `SELECT id FROM categories WHERE slug = $1`
	case "subcategory":
		query = `SELECT id FROM subcategories WHERE slug = $1`
	default:
		return "", fmt.Errorf("unknown reference kind: %s", kind)
	}

	var id string

	err := r.DB.QueryRowContext(dbCtx, query, ref).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}

		return "", fmt.Errorf("querying database: %w", err)
	}

	return id, nil
}

func (r *catalogRepository) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, label, start_time, end_time, is_active
		FROM time_slots
		WHERE is_active = true
		ORDER BY start_time ASC
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	var slots []models.TimeSlot

	for rows.Next() {
		var slot models.TimeSlot

		if err := rows.Scan(&slot.ID, &slot.Label, &slot.StartTime, &slot.EndTime, &slot.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan time slot row: %w", err)
		}

		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time slot rows: %w", err)
	}

	return slots, nil
}
