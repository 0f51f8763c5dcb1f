package middleware

import (
	"net/http"

	"github.com/priyansupat/farmdirect-backend/api/responses"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

// RequireRole gates a route subtree on the authenticated actor's role. Auth
// must run earlier in the chain; an unauthenticated request carries no role
// and is rejected the same way as a wrong one.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if actor := RoleFromContext(ctx); actor != role {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, role+" role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
