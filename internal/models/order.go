package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderItemStatus string

const OrderItemStatusPending OrderItemStatus = "pending"

// ResolvedOrderItem carries canonical identifiers only. It is assembled at
// submission time from a cart line plus resolver output and never persisted
// on the client side.
type ResolvedOrderItem struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	ServiceID     string          `json:"service_id"`
	ServiceName   string          `json:"service_name"`
	CategoryID    string          `json:"category_id"`
	SubcategoryID string          `json:"subcategory_id"`
	VariantID     string          `json:"variant_id,omitempty"`
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	UnitPrice     float64         `json:"unit_price" validate:"gte=0"`
	TotalPrice    float64         `json:"total_price" validate:"gte=0"`
	Status        OrderItemStatus `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Order struct {
	ID                  uuid.UUID           `json:"id"`
	CustomerID          string              `json:"customer_id"`
	Status              OrderStatus         `json:"status"`
	Items               []ResolvedOrderItem `json:"items"`
	Subtotal            float64             `json:"subtotal"`
	DiscountAmount      float64             `json:"discount_amount"`
	GSTAmount           float64             `json:"gst_amount"`
	ServiceChargeAmount float64             `json:"service_charge_amount"`
	FinalAmount         float64             `json:"final_amount"`
	CouponCode          string              `json:"coupon_code,omitempty"`
	Address             *Address            `json:"address"`
	Notes               string              `json:"notes,omitempty"`
	ScheduledDate       string              `json:"scheduled_date,omitempty"`
	TimeSlot            string              `json:"time_slot,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

type CreateOrderRequest struct {
	CustomerID          string              `json:"customer_id" validate:"required"`
	Items               []ResolvedOrderItem `json:"items" validate:"required,min=1,dive"`
	Subtotal            float64             `json:"subtotal" validate:"gte=0"`
	DiscountAmount      float64             `json:"discount_amount" validate:"gte=0"`
	GSTAmount           float64             `json:"gst_amount" validate:"gte=0"`
	ServiceChargeAmount float64             `json:"service_charge_amount" validate:"gte=0"`
	FinalAmount         float64             `json:"final_amount" validate:"gte=0"`
	CouponCode          string              `json:"coupon_code,omitempty"`
	Address             Address             `json:"address" validate:"required"`
	Notes               string              `json:"notes,omitempty"`
	ScheduledDate       string              `json:"scheduled_date,omitempty"`
	TimeSlot            string              `json:"time_slot,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed in_progress completed cancelled"`
}

type OrderHistoryResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}
