package handlers

import (
	"net/http"

	"github.com/servease/household-services-platform/internal/api/middleware"
	"github.com/servease/household-services-platform/internal/errors"
	"github.com/servease/household-services-platform/internal/utils/response"
)

// userID extracts the authenticated user from the request context, writing
// the 401 envelope itself when absent.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Error(w, errors.UnauthorizedError("Authentication required"))

		return "", false
	}

	return claims.UserID.String(), true
}
