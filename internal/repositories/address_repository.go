package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/utils"
)

type AddressRepository interface {
	GetAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListAddressesByUser(ctx context.Context, userID string) ([]models.Address, error)
}

type addressRepository struct {
	DB *sql.DB
}

func NewAddressRepo(db *sql.DB) AddressRepository {
	return &addressRepository{DB: db}
}

func (r *addressRepository) GetAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, street, city, state, postal_code, landmark, type, is_default, created_at, updated_at
		FROM addresses
		WHERE id = $1
	`

	address := &models.Address{}

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&address.ID, &address.UserID, &address.Street, &address.City, &address.State,
		&address.PostalCode, &address.Landmark, &address.Type, &address.IsDefault,
		&address.CreatedAt, &address.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return address, nil
}

func (r *addressRepository) ListAddressesByUser(ctx context.Context, userID string) ([]models.Address, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, street, city, state, postal_code, landmark, type, is_default, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	var addresses []models.Address

	for rows.Next() {
		var address models.Address

		err := rows.Scan(
			&address.ID, &address.UserID, &address.Street, &address.City, &address.State,
			&address.PostalCode, &address.Landmark, &address.Type, &address.IsDefault,
			&address.CreatedAt, &address.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address row: %w", err)
		}

		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate address rows: %w", err)
	}

	return addresses, nil
}
