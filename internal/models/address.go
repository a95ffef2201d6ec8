package models

import (
	"time"

	"github.com/google/uuid"
)

type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

// Address is read from the address store and treated as an opaque selection
// by the pricing core.
type Address struct {
	ID         uuid.UUID   `json:"id"`
	UserID     string      `json:"user_id"`
	Street     string      `json:"street" validate:"required"`
	City       string      `json:"city" validate:"required"`
	State      string      `json:"state" validate:"required"`
	PostalCode string      `json:"postal_code" validate:"required"`
	Landmark   string      `json:"landmark,omitempty"`
	Type       AddressType `json:"type" validate:"required,oneof=home work other"`
	IsDefault  bool        `json:"is_default"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
