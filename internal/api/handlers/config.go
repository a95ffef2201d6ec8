package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	apperrors "github.com/servease/household-services-platform/internal/errors"
	repository "github.com/servease/household-services-platform/internal/repositories"
	"github.com/servease/household-services-platform/internal/resolver"
	"github.com/servease/household-services-platform/internal/utils/response"
)

// ConfigHandler serves the storefront configuration surface: identifier
// resolution and scheduling options.
type ConfigHandler struct {
	catalog repository.CatalogRepository
}

func NewConfigHandler(catalog repository.CatalogRepository) *ConfigHandler {
	return &ConfigHandler{catalog: catalog}
}

func (h *ConfigHandler) ResolveRef() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		kind := r.PathValue("kind")
		ref := r.PathValue("ref")

		switch kind {
		case string(resolver.KindService), string(resolver.KindCategory), string(resolver.KindSubcategory):
		default:
			response.Error(w, apperrors.AddValidationError("kind", "must be service, category or subcategory"))

			return
		}

		if ref == "" {
			response.Error(w, apperrors.AddValidationError("ref", "must not be empty"))

			return
		}

		// Already canonical, answer without touching the catalog.
		if resolver.IsCanonical(ref) {
			response.Success(w, http.StatusOK, map[string]string{"id": ref})

			return
		}

		id, err := h.catalog.ResolveRef(r.Context(), kind, ref)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				response.Error(w, apperrors.NotFoundError("Unknown "+kind+" reference: "+ref))

				return
			}

			response.Error(w, apperrors.DatabaseError("Failed to resolve reference").WithError(err))

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"id": id})
	}
}

func (h *ConfigHandler) ListTimeSlots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		slots, err := h.catalog.ListTimeSlots(r.Context())
		if err != nil {
			response.Error(w, apperrors.DatabaseError("Failed to fetch time slots").WithError(err))

			return
		}

		response.Success(w, http.StatusOK, slots)
	}
}
