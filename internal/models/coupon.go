package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon is read-only from the storefront's perspective; it is looked up and
// validated, never mutated here.
type Coupon struct {
	ID                    uuid.UUID    `json:"id"`
	Code                  string       `json:"code"`
	Description           string       `json:"description,omitempty"`
	DiscountType          DiscountType `json:"discount_type"`
	Value                 float64      `json:"value"`
	MaximumDiscountAmount *float64     `json:"maximum_discount_amount,omitempty"`
	ValidFrom             time.Time    `json:"valid_from"`
	ValidUntil            time.Time    `json:"valid_until"`
	IsActive              bool         `json:"is_active"`
	ApplicableCategoryIDs []string     `json:"applicable_category_ids,omitempty"`
	ApplicableServiceIDs  []string     `json:"applicable_service_ids,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// AppliesTo evaluates one line item against the coupon's applicability rule.
// An empty rule means the coupon is unrestricted.
func (c *Coupon) AppliesTo(item *CartLineItem) bool {
	if len(c.ApplicableCategoryIDs) == 0 && len(c.ApplicableServiceIDs) == 0 {
		return true
	}

	for _, categoryID := range c.ApplicableCategoryIDs {
		if strings.EqualFold(categoryID, item.CategoryID) {
			return true
		}
	}

	for _, serviceID := range c.ApplicableServiceIDs {
		if strings.EqualFold(serviceID, item.ServiceID) {
			return true
		}
	}

	return false
}

type ValidateCouponRequest struct {
	CouponCode string  `json:"couponCode" validate:"required,min=3,max=32"`
	ServiceID  string  `json:"serviceId,omitempty"`
	Amount     float64 `json:"amount"    validate:"gte=0"`
}

type ValidateCouponResponse struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	Reason         string  `json:"reason,omitempty"`
}
