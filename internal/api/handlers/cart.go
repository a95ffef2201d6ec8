package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/servease/household-services-platform/internal/api/middleware"
	"github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/metrics"
	"github.com/servease/household-services-platform/internal/models"
	service "github.com/servease/household-services-platform/internal/services"
	"github.com/servease/household-services-platform/internal/utils"
	"github.com/servease/household-services-platform/internal/utils/response"
)

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetOrCreateCart(r.Context(), uid)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		if err := utils.ValidateStruct(h.validator, &req); err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}

		cart, err := h.cartService.AddItem(r.Context(), uid, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		lineItemID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.AddValidationError("id", "must be a valid line item id"))

			return
		}

		var req models.UpdateQuantityRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		if err := utils.ValidateStruct(h.validator, &req); err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), uid, lineItemID, req.Quantity)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		lineItemID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.AddValidationError("id", "must be a valid line item id"))

			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), uid, lineItemID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		if err := h.cartService.Clear(r.Context(), uid); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

func (h *CartHandler) ApplyCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		var req models.ApplyCouponRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		if err := utils.ValidateStruct(h.validator, &req); err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}

		cart, err := h.cartService.ApplyCoupon(r.Context(), uid, req.CouponCode)
		if err != nil {
			if appErr, ok := errors.IsAppError(err); ok {
				metrics.RecordCouponApplication(appErr.Code)
			}

			response.Error(w, err)

			return
		}

		metrics.RecordCouponApplication("applied")

		if cart.CouponResult != nil && cart.CouponResult.IsPartiallyApplied {
			logger.Info("Coupon applied to part of the cart",
				"coupon", cart.AppliedCouponCode,
				"eligible_items", cart.CouponResult.EligibleItemsCount,
			)
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.RemoveCoupon(r.Context(), uid)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}
