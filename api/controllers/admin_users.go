package controllers

import (
	"net/http"

	"github.com/rohanmahajan/furnimart-backend/api/responses"
	usersvc "github.com/rohanmahajan/furnimart-backend/internal/users"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
)

func AdminUsersList(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		list, err := svc.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
