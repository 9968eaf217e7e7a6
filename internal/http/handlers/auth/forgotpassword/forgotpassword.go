// Package forgotpassword implements the forgot-password HTTP handler.
//
// The flow acknowledges every request without dispatching mail, so the
// endpoint never discloses whether an email is registered.
package forgotpassword

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
	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// Request carries the email asking for a reset.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service is the slice of the auth service the handler needs.
type Service interface {
	ForgotPassword(ctx context.Context, email string) *models.AuthResult
}

// Handler serves forgot-password requests.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a forgot-password Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Request a password reset
// @Description Acknowledges the request regardless of whether the email exists.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Account email"
// @Success 200 {object} models.AuthResult
// @Failure 400 {object} response.ErrorResponse "Malformed request body"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /auth/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

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

	render.JSON(w, r, h.auth.ForgotPassword(r.Context(), req.Email))
}
