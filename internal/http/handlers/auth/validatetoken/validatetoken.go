// Package validatetoken implements the token introspection HTTP
// handler. The body carries the token as a JSON string.
package validatetoken

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
)

// Service is the slice of the auth service the handler needs.
type Service interface {
	ValidateToken(ctx context.Context, token string) bool
}

// Handler serves token validation requests.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New creates a validate-token Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
	}
}

// ServeHTTP godoc
// @Summary Validate a session token
// @Description Reports whether the token is currently valid.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body string true "Session token"
// @Success 200 {object} map[string]any "Token is valid"
// @Failure 400 {object} map[string]any "Token missing"
// @Failure 401 {object} map[string]any "Token invalid or expired"
// @Router /auth/validate-token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.validatetoken"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var token string
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		log.Error("failed to decode token from request body", sl.Err(err))
		token = ""
	}
	if token == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"valid": false, "message": "Token is required"})
		return
	}

	if !h.auth.ValidateToken(r.Context(), token) {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, map[string]any{"valid": false, "message": "Token is invalid or expired"})
		return
	}

	render.JSON(w, r, map[string]any{"valid": true, "message": "Token is valid"})
}
