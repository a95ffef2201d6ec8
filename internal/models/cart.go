package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLineItem is one bookable service in a cart. ServiceID, CategoryID and
// SubcategoryID may be human-facing slugs until checkout resolves them to
// canonical identifiers.
type CartLineItem struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       string    `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	CategoryID      string    `json:"category_id"`
	SubcategoryID   string    `json:"subcategory_id"`
	VariantID       string    `json:"variant_id,omitempty"`
	VariantName     string    `json:"variant_name,omitempty"`
	Quantity        int       `json:"quantity"`
	BasePrice       float64   `json:"base_price"`
	DiscountedPrice *float64  `json:"discounted_price,omitempty"`
	TotalPrice      float64   `json:"total_price"`
	DurationMinutes int       `json:"duration_minutes"`
	GSTPercentage   float64   `json:"gst_percentage"`
}

// UnitPrice is the discounted price when one is set, else the base price.
func (i *CartLineItem) UnitPrice() float64 {
	if i.DiscountedPrice != nil {
		return *i.DiscountedPrice
	}

	return i.BasePrice
}

// SameLine reports whether another add targets this line (same service and
// variant), in which case quantities merge instead of duplicating lines.
func (i *CartLineItem) SameLine(serviceID, variantID string) bool {
	return i.ServiceID == serviceID && i.VariantID == variantID
}

type CouponApplicationResult struct {
	CouponCode         string  `json:"coupon_code"`
	EligibleItemsCount int     `json:"eligible_items_count"`
	IneligibleItems    int     `json:"ineligible_items_count"`
	EligibleAmount     float64 `json:"eligible_amount"`
	DiscountAmount     float64 `json:"discount_amount"`
	IsPartiallyApplied bool    `json:"is_partially_applied"`
}

type Cart struct {
	ID                  uuid.UUID                `json:"id"`
	UserID              string                   `json:"user_id"` // uuid or guest marker
	Items               []CartLineItem           `json:"items"`
	Subtotal            float64                  `json:"subtotal"`
	DiscountAmount      float64                  `json:"discount_amount"`
	GSTAmount           float64                  `json:"gst_amount"`
	ServiceChargeAmount float64                  `json:"service_charge_amount"`
	FinalAmount         float64                  `json:"final_amount"`
	AppliedCouponCode   string                   `json:"applied_coupon_code,omitempty"`
	CouponResult        *CouponApplicationResult `json:"coupon_result,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the index of the line with the given id, or -1.
func (c *Cart) FindItem(lineItemID uuid.UUID) int {
	for idx := range c.Items {
		if c.Items[idx].ID == lineItemID {
			return idx
		}
	}

	return -1
}

type AddItemRequest struct {
	ServiceRef string `json:"service_ref" validate:"required"`
	VariantRef string `json:"variant_ref,omitempty"`
	Quantity   int    `json:"quantity"    validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type ApplyCouponRequest struct {
	CouponCode string `json:"coupon_code" validate:"required,min=3,max=32"`
}
