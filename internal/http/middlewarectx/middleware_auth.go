// Package middlewarectx holds the HTTP middleware for bearer-token
// authentication and request rate limiting.
//
// JWTMiddleware checks the Authorization header for a valid token and,
// on success, puts the subject's user id into the request context for
// downstream handlers. Failures answer 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mousejiggler/jiggler-backend/internal/http/response"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
)

// Key is the context key type for request-scoped values.
type Key string

// UserID keys the authenticated user's id in the request context.
const UserID Key = "user_id"

// TokenParser extracts the subject user id from a signed token.
type TokenParser interface {
	ExtractUserID(token string) (int, error)
}

// JWTMiddleware returns middleware that requires a valid bearer token.
//
// On success the subject's user id is stored in the request context
// under UserID; otherwise the request is answered with 401.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			userID, err := parser.ExtractUserID(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id set by
// JWTMiddleware, or false when the request was not authenticated.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserID).(int)
	return id, ok
}
