// Package subscribe implements the newsletter opt-in HTTP handler.
package subscribe

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

// Request carries the newsletter opt-in form.
type Request struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	UserID    *int   `json:"userId"`
}

// Service is the slice of the newsletter service the handler needs.
type Service interface {
	Subscribe(ctx context.Context, email, firstName, lastName string, userID *int) error
}

// Handler serves newsletter opt-in requests.
type Handler struct {
	log        *slog.Logger
	newsletter Service
	validate   *validator.Validate
}

// New creates a subscribe Handler.
func New(log *slog.Logger, newsletter Service) *Handler {
	return &Handler{
		log:        log,
		newsletter: newsletter,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Subscribe to the newsletter
// @Description Opts an email in; re-subscribing an unsubscribed email reactivates it.
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body Request true "Opt-in form"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Malformed request body"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Failure 500 {object} response.ErrorResponse "Storage failure"
// @Router /newsletter/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter.subscribe"

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

	if err := h.newsletter.Subscribe(r.Context(), req.Email, req.FirstName, req.LastName, req.UserID); err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to subscribe"))
		return
	}

	log.Info("newsletter subscription handled", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"email": req.Email,
	}))
}
