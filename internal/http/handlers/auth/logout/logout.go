// Package logout implements the logout HTTP handler.
//
// Tokens are stateless, so logout performs no server-side invalidation
// and always succeeds. The body carries the token as a JSON string.
package logout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mousejiggler/jiggler-backend/internal/http/response"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
)

// Service is the slice of the auth service the handler needs.
type Service interface {
	Logout(ctx context.Context, token string)
}

// Handler serves logout requests.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New creates a logout Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
	}
}

// ServeHTTP godoc
// @Summary Log out
// @Description Always succeeds; tokens stay valid until natural expiry.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body string true "Session token"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "Malformed request body"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var token string
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	h.auth.Logout(r.Context(), token)
	render.JSON(w, r, map[string]any{
		"success": true,
		"message": "Logout successful",
	})
}
