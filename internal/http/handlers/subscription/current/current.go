// Package current implements the HTTP handler returning the
// authenticated user's subscription. The body carries the session
// token as a JSON string.
package current

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

// SubscriptionService loads subscriptions.
type SubscriptionService interface {
	GetSubscription(ctx context.Context, userID int) (*models.Subscription, error)
}

// Handler serves current-subscription requests.
type Handler struct {
	log  *slog.Logger
	auth AuthService
	subs SubscriptionService
}

// New creates a current-subscription Handler.
func New(log *slog.Logger, auth AuthService, subs SubscriptionService) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
		subs: subs,
	}
}

// ServeHTTP godoc
// @Summary Get the current subscription
// @Description Returns the token subject's subscription, active or not.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param token body string true "Session token"
// @Success 200 {object} models.SubscriptionInfo
// @Failure 401 {object} map[string]any "Token missing, invalid or expired"
// @Failure 404 {object} map[string]any "No subscription on record"
// @Router /subscription/current [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.current"

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

	sub, err := h.subs.GetSubscription(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to load subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, map[string]any{"success": false, "message": "Internal server error"})
		return
	}
	if sub == nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, map[string]any{"success": false, "message": "No subscription found for this user"})
		return
	}

	render.JSON(w, r, sub.Info())
}
