package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/models"
	service "github.com/servease/household-services-platform/internal/services"
	"github.com/servease/household-services-platform/internal/utils"
	"github.com/servease/household-services-platform/internal/utils/response"
)

type CouponHandler struct {
	couponService *service.CouponService
	validator     *validator.Validate
}

func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		validator:     validator.New(),
	}
}

func (h *CouponHandler) ListCoupons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		coupons, err := h.couponService.ListActiveCoupons(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, coupons)
	}
}

func (h *CouponHandler) ValidateCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.ValidateCouponRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		if err := utils.ValidateStruct(h.validator, &req); err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}

		result, err := h.couponService.ValidateCoupon(r.Context(), &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, result)
	}
}
