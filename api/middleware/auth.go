package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/priyansupat/farmdirect-backend/api/responses"
	pkgauth "github.com/priyansupat/farmdirect-backend/pkg/auth"
	"github.com/priyansupat/farmdirect-backend/pkg/auth/session"
	"github.com/priyansupat/farmdirect-backend/pkg/config"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

// Auth validates the bearer token, checks its jti against the session store
// (so a logged-out token dies immediately), and seeds the context with the
// user id and role for the handlers and RequireRole downstream.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(err error) {
				responses.WriteError(r.Context(), logg, w, err)
			}

			token := bearerToken(r)
			if token == "" {
				reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				reject(pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					reject(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID,
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
