// Package unsubscribe implements the newsletter opt-out HTTP handler.
package unsubscribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mousejiggler/jiggler-backend/internal/http/response"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
)

// Request names the email to opt out.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service is the slice of the newsletter service the handler needs.
type Service interface {
	Unsubscribe(ctx context.Context, email string) (bool, error)
}

// Handler serves newsletter opt-out requests.
type Handler struct {
	log        *slog.Logger
	newsletter Service
	validate   *validator.Validate
}

// New creates an unsubscribe Handler.
func New(log *slog.Logger, newsletter Service) *Handler {
	return &Handler{
		log:        log,
		newsletter: newsletter,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Unsubscribe from the newsletter
// @Description Deactivates the opt-in for the email.
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body Request true "Opt-out form"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Malformed request body"
// @Failure 404 {object} response.ErrorResponse "No active subscription"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /newsletter/unsubscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter.unsubscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	removed, err := h.newsletter.Unsubscribe(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to unsubscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to unsubscribe"))
		return
	}
	if !removed {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no active subscription for this email"))
		return
	}

	log.Info("newsletter unsubscription handled", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"email": req.Email,
	}))
}
