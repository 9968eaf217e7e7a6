// Package createkey implements the administrative HTTP handler that
// issues activation keys. The route sits behind the bearer-token
// middleware; the key is created for the authenticated user unless an
// explicit owner is given.
package createkey

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mousejiggler/jiggler-backend/internal/http/middlewarectx"
	"github.com/mousejiggler/jiggler-backend/internal/http/response"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// Request optionally names the key owner and attaches notes.
type Request struct {
	UserID *int    `json:"userId"`
	Notes  *string `json:"notes"`
}

// Service is the slice of the activation key service the handler needs.
type Service interface {
	CreateKey(ctx context.Context, userID int, notes *string) *models.KeyVerdict
}

// Handler serves key creation requests.
type Handler struct {
	log  *slog.Logger
	keys Service
}

// New creates a key creation Handler.
func New(log *slog.Logger, keys Service) *Handler {
	return &Handler{
		log:  log,
		keys: keys,
	}
}

// ServeHTTP godoc
// @Summary Issue an activation key
// @Description Creates a pre-activated key with a one-year expiry.
// @Tags Activation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Key owner and notes"
// @Success 200 {object} models.KeyVerdict
// @Failure 400 {object} response.ErrorResponse "Malformed request body"
// @Failure 401 {object} response.ErrorResponse "Missing or invalid token"
// @Router /activation/keys [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activation.createkey"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authedID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("no authenticated user in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing or invalid authorization header"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	ownerID := authedID
	if req.UserID != nil {
		ownerID = *req.UserID
	}

	verdict := h.keys.CreateKey(r.Context(), ownerID, req.Notes)
	log.Info("activation key creation handled",
		slog.Int("user_id", ownerID), slog.Bool("valid", verdict.Valid))
	render.JSON(w, r, verdict)
}
