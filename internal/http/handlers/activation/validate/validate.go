// Package validate implements the activation key validation HTTP
// handler used by desktop clients.
//
// The endpoint always answers 200: the verdict envelope itself says
// whether the key grants access, so clients branch on its fields
// rather than on status codes.
package validate

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

// Request carries the activation key to check.
type Request struct {
	Key string `json:"key"`
}

// Service is the slice of the activation key service the handler needs.
type Service interface {
	ValidateKey(ctx context.Context, key string) *models.KeyVerdict
}

// Handler serves activation key validation requests.
type Handler struct {
	log  *slog.Logger
	keys Service
}

// New creates a validation Handler.
func New(log *slog.Logger, keys Service) *Handler {
	return &Handler{
		log:  log,
		keys: keys,
	}
}

// ServeHTTP godoc
// @Summary Validate an activation key
// @Description Checks key existence, activation, expiry and the owner's subscription. Always answers 200 with a verdict.
// @Tags Activation
// @Accept json
// @Produce json
// @Param request body Request true "Activation key"
// @Success 200 {object} models.KeyVerdict
// @Router /activation/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activation.validate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		// An unreadable body is treated as a missing key, still 200.
		req.Key = ""
	}

	verdict := h.keys.ValidateKey(r.Context(), req.Key)
	log.Info("activation key checked", slog.Bool("valid", verdict.Valid))
	render.JSON(w, r, verdict)
}
