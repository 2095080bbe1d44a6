package middleware

import (
	"net/http"

	"github.com/crewcast/shootflow-backend/api/responses"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/crewcast/shootflow-backend/pkg/logger"
)

// RequireRole gates a route to the listed directory positions.
func RequireRole(logg *logger.Logger, roles ...enums.Position) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
		})
	}
}
