// Package checkactive implements the HTTP handler reporting whether
// the token subject currently has an entitling subscription. The body
// carries the session token as a JSON string.
package checkactive

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

// AuthService resolves tokens to user profiles.
type AuthService interface {
	GetUserFromToken(ctx context.Context, token string) *models.UserProfile
}

// SubscriptionService answers entitlement checks.
type SubscriptionService interface {
	HasActiveSubscription(ctx context.Context, userID int) (bool, error)
}

// Handler serves check-active requests.
type Handler struct {
	log  *slog.Logger
	auth AuthService
	subs SubscriptionService
}

// New creates a check-active Handler.
func New(log *slog.Logger, auth AuthService, subs SubscriptionService) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
		subs: subs,
	}
}

// ServeHTTP godoc
// @Summary Check subscription entitlement
// @Description Reports whether the token subject has an active subscription.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param token body string true "Session token"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]any "Token missing, invalid or expired"
// @Router /subscription/check-active [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.checkactive"

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
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, map[string]any{"success": false, "message": "Invalid or expired token"})
		return
	}

	hasActive, err := h.subs.HasActiveSubscription(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to check subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, map[string]any{"success": false, "message": "Internal server error"})
		return
	}

	render.JSON(w, r, map[string]any{"hasActiveSubscription": hasActive})
}
