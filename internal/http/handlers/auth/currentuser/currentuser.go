// Package currentuser implements the current-user HTTP handler: it
// resolves a session token to the subject's profile projection. The
// body carries the token as a JSON string.
package currentuser

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// Service is the slice of the auth service the handler needs.
type Service interface {
	GetUserFromToken(ctx context.Context, token string) *models.UserProfile
}

// Handler serves current-user requests.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New creates a current-user Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
	}
}

// ServeHTTP godoc
// @Summary Resolve the current user
// @Description Returns the profile of the token's subject.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body string true "Session token"
// @Success 200 {object} models.UserProfile
// @Failure 401 {object} map[string]any "Token missing, invalid or expired"
// @Router /auth/current-user [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.currentuser"

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
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, map[string]any{"success": false, "message": "Token is required"})
		return
	}

	user := h.auth.GetUserFromToken(r.Context(), token)
	if user == nil {
		log.Info("token did not resolve to a user")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, map[string]any{"success": false, "message": "Invalid or expired token"})
		return
	}

	render.JSON(w, r, user)
}
