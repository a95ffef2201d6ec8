package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	apperrors "github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/models"
	repository "github.com/servease/household-services-platform/internal/repositories"
	"github.com/servease/household-services-platform/internal/resolver"
)

type CheckoutState string

const (
	CheckoutStateIdle            CheckoutState = "idle"
	CheckoutStateAddressSelected CheckoutState = "address_selected"
	CheckoutStateResolving       CheckoutState = "resolving"
	CheckoutStateSubmitting      CheckoutState = "submitting"
	CheckoutStateSucceeded       CheckoutState = "succeeded"
	CheckoutStateFailed          CheckoutState = "failed"
)

// OrderPlacer submits the assembled order. The monolith wires OrderService;
// a split deployment wires an HTTP gateway client.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
}

type CheckoutRequest struct {
	AddressID     uuid.UUID `json:"address_id" validate:"required"`
	Notes         string    `json:"notes,omitempty"`
	ScheduledDate string    `json:"scheduled_date,omitempty"`
	TimeSlot      string    `json:"time_slot,omitempty"`
}

type CheckoutResult struct {
	State          CheckoutState `json:"state"`
	OrderID        uuid.UUID     `json:"order_id"`
	FinalAmount    float64       `json:"final_amount"`
	UnresolvedRefs []string      `json:"unresolved_refs,omitempty"`
}

// CheckoutService sequences address selection, identifier resolution, order
// assembly and submission. One Submit call walks the whole state machine;
// the cart survives every failure and is cleared only on success.
type CheckoutService struct {
	carts         *CartService
	addresses     repository.AddressRepository
	resolver      *resolver.Resolver
	orders        OrderPlacer
	notifications *NotificationService
	sanitizer     *bluemonday.Policy
	submitTimeout time.Duration
}

func NewCheckoutService(carts *CartService, addresses repository.AddressRepository, res *resolver.Resolver, orders OrderPlacer, notifications *NotificationService, submitTimeout time.Duration) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		addresses:     addresses,
		resolver:      res,
		orders:        orders,
		notifications: notifications,
		sanitizer:     bluemonday.StrictPolicy(),
		submitTimeout: submitTimeout,
	}
}

// Submit runs Idle → AddressSelected → Resolving → Submitting →
// Succeeded|Failed. Address and cart checks happen before any resolution or
// network work. There is no automatic retry and no submission dedup: a
// manual retry after a transient failure can create a duplicate order.
func (s *CheckoutService) Submit(ctx context.Context, userID, customerEmail string, req *CheckoutRequest) (*CheckoutResult, error) {

	logger := slog.Default().With(slog.String("userId", userID))

	// Idle → AddressSelected
	if req.AddressID == uuid.Nil {
		return nil, apperrors.MissingAddressError("An address must be selected before checkout")
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart.IsEmpty() {
		return nil, apperrors.EmptyCartError()
	}

	address, err := s.addresses.GetAddressByID(ctx, req.AddressID)
	if err != nil {
		return nil, apperrors.MissingAddressError("Selected address not found").WithError(err)
	}

	if address.UserID != userID {
		return nil, apperrors.ForbiddenError("Address belongs to another user")
	}

	// AddressSelected → Resolving: fan out every line's three refs and wait
	// for all of them.
	logger.Info("Checkout resolving identifiers", slog.Int("items", len(cart.Items)))

	items, unresolved := s.assembleItems(ctx, cart)

	if len(unresolved) > 0 {
		logger.Warn("Submitting order with unresolved references",
			slog.Int("count", len(unresolved)),
		)
	}

	// Resolving → Submitting
	orderReq := &models.CreateOrderRequest{
		CustomerID:          userID,
		Items:               items,
		Subtotal:            cart.Subtotal,
		DiscountAmount:      cart.DiscountAmount,
		GSTAmount:           cart.GSTAmount,
		ServiceChargeAmount: cart.ServiceChargeAmount,
		FinalAmount:         cart.FinalAmount,
		CouponCode:          cart.AppliedCouponCode,
		Address:             *address,
		Notes:               s.sanitizer.Sanitize(req.Notes),
		ScheduledDate:       req.ScheduledDate,
		TimeSlot:            req.TimeSlot,
	}

	submitCtx := ctx

	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	order, err := s.orders.PlaceOrder(submitCtx, orderReq)
	if err != nil {
		// A 401 sends the caller to login with the cart intact; everything
		// else surfaces verbatim, also with the cart intact.
		if apperrors.IsAuthenticationRequired(err) {
			logger.Warn("Order submission requires authentication")

			return nil, apperrors.UnauthorizedError("Authentication required to place the order").WithError(err)
		}

		logger.Error("Order submission failed", slog.String("error", err.Error()))

		return nil, err
	}

	// Submitting → Succeeded
	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order exists; a stale cart is an annoyance, not a failure.
		logger.Warn("Failed to clear cart after order placement", slog.String("error", err.Error()))
	}

	if s.notifications != nil && customerEmail != "" {
		if err := s.notifications.SendOrderConfirmation(ctx, customerEmail, order); err != nil {
			logger.Warn("Failed to send order confirmation", slog.String("error", err.Error()))
		}
	}

	logger.Info("Order placed",
		slog.String("orderId", order.ID.String()),
		slog.Float64("finalAmount", order.FinalAmount),
	)

	return &CheckoutResult{
		State:          CheckoutStateSucceeded,
		OrderID:        order.ID,
		FinalAmount:    order.FinalAmount,
		UnresolvedRefs: unresolved,
	}, nil
}

// assembleItems resolves every line's service/category/subcategory refs with
// bounded fan-out and builds one ResolvedOrderItem per line. Fallback
// outcomes keep the original ref and are reported back to the caller.
func (s *CheckoutService) assembleItems(ctx context.Context, cart *models.Cart) ([]models.ResolvedOrderItem, []string) {

	requests := make([]resolver.Request, 0, len(cart.Items)*3)

	for idx := range cart.Items {
		requests = append(requests,
			resolver.Request{Kind: resolver.KindService, Ref: cart.Items[idx].ServiceID},
			resolver.Request{Kind: resolver.KindCategory, Ref: cart.Items[idx].CategoryID},
			resolver.Request{Kind: resolver.KindSubcategory, Ref: cart.Items[idx].SubcategoryID},
		)
	}

	outcomes := s.resolver.ResolveAll(ctx, requests)

	var unresolved []string

	items := make([]models.ResolvedOrderItem, 0, len(cart.Items))

	for idx := range cart.Items {
		line := &cart.Items[idx]

		serviceOutcome := outcomes[idx*3]
		categoryOutcome := outcomes[idx*3+1]
		subcategoryOutcome := outcomes[idx*3+2]

		for _, outcome := range []resolver.Outcome{serviceOutcome, categoryOutcome, subcategoryOutcome} {
			if outcome.Fallback {
				unresolved = append(unresolved, outcome.Ref)
			}
		}

		items = append(items, models.ResolvedOrderItem{
			ServiceID:     serviceOutcome.Ref,
			ServiceName:   line.ServiceName,
			CategoryID:    categoryOutcome.Ref,
			SubcategoryID: subcategoryOutcome.Ref,
			VariantID:     line.VariantID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice(),
			TotalPrice:    line.TotalPrice,
			Status:        models.OrderItemStatusPending,
		})
	}

	return items, unresolved
}
