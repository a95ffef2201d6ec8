package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/servease/household-services-platform/internal/api/middleware"
	"github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/metrics"
	service "github.com/servease/household-services-platform/internal/services"
	"github.com/servease/household-services-platform/internal/utils"
	"github.com/servease/household-services-platform/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator.New(),
	}
}

func (h *CheckoutHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req service.CheckoutRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		if err := utils.ValidateStruct(h.validator, &req); err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}

		result, err := h.checkoutService.Submit(r.Context(), claims.UserID.String(), claims.Email, &req)
		if err != nil {
			metrics.RecordCheckoutSubmission(string(service.CheckoutStateFailed))
			response.Error(w, err)

			return
		}

		metrics.RecordCheckoutSubmission(string(result.State))
		response.Success(w, http.StatusCreated, result)
	}
}
