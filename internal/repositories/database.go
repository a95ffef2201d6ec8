package repository

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/servease/household-services-platform/internal/config"

	_ "github.com/lib/pq"
)

type Repository struct {
	DB *sql.DB

	Cart    CartRepository
	Coupon  CouponRepository
	Order   OrderRepository
	Catalog CatalogRepository
	Address AddressRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		DB:      db,
		Cart:    NewCartRepo(db),
		Coupon:  NewCouponRepo(db),
		Order:   NewOrderRepo(db),
		Catalog: NewCatalogRepo(db),
		Address: NewAddressRepo(db),
	}, nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
