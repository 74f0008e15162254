package controllers

import (
	"net/http"

	"github.com/rohanmahajan/furnimart-backend/api/middleware"
	"github.com/rohanmahajan/furnimart-backend/api/responses"
	"github.com/rohanmahajan/furnimart-backend/api/validators"
	checkoutsvc "github.com/rohanmahajan/furnimart-backend/internal/checkout"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
)

// Checkout places an order from the caller's cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.UserID = middleware.UserIDFromContext(r.Context())

		resp, err := svc.Execute(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}
