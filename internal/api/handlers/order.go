package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/models"
	service "github.com/servease/household-services-platform/internal/services"
	"github.com/servease/household-services-platform/internal/utils"
	"github.com/servease/household-services-platform/internal/utils/response"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		var req models.CreateOrderRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		req.CustomerID = uid

		if err := utils.ValidateStruct(h.validator, &req); err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if _, ok := userID(w, r); !ok {
			return
		}

		orderID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.AddValidationError("id", "must be a valid order id"))

			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), orderID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))

		history, err := h.orderService.ListOrdersByCustomer(r.Context(), uid, page, size)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, history)
	}
}

func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if _, ok := userID(w, r); !ok {
			return
		}

		orderID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.AddValidationError("id", "must be a valid order id"))

			return
		}

		var req models.UpdateOrderStatusRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		if err := utils.ValidateStruct(h.validator, &req); err != nil {
			response.Error(w, errors.ValidationError(err.Error()))

			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), orderID, req.Status)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		orderID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.AddValidationError("id", "must be a valid order id"))

			return
		}

		order, err := h.orderService.CancelOrder(r.Context(), orderID, uid)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
