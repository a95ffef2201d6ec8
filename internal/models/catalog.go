package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogService is one bookable household service, e.g. "deep-cleaning".
// Slug is the human-facing reference shown in URLs and cached client-side.
type CatalogService struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	CategoryID      string    `json:"category_id"`
	SubcategoryID   string    `json:"subcategory_id"`
	BasePrice       float64   `json:"base_price"`
	DiscountedPrice *float64  `json:"discounted_price,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	GSTPercentage   float64   `json:"gst_percentage"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ServiceVariant is a sized/tiered variant of a service, e.g. "3 BHK".
type ServiceVariant struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       uuid.UUID `json:"service_id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	BasePrice       float64   `json:"base_price"`
	DiscountedPrice *float64  `json:"discounted_price,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
}

type TimeSlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}
