package handlers

import (
	"net/http"

	repository "github.com/servease/household-services-platform/internal/repositories"
	"github.com/servease/household-services-platform/internal/utils/response"
)

type AddressHandler struct {
	addresses repository.AddressRepository
}

func NewAddressHandler(addresses repository.AddressRepository) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

func (h *AddressHandler) ListAddresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		addresses, err := h.addresses.ListAddressesByUser(r.Context(), uid)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, addresses)
	}
}
