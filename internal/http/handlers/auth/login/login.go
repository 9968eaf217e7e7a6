// Package login implements the HTTP handler for user authentication.
//
// It decodes and validates the credentials, delegates the login to the
// auth service and writes back the auth envelope. Both unknown emails
// and wrong passwords produce the same 401 response.
package login

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

// Request carries the login credentials.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service is the slice of the auth service the handler needs.
type Service interface {
	Login(ctx context.Context, email, password string) *models.AuthResult
}

// Handler serves login requests.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a login Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Authenticate a user
// @Description Authenticates by email and password and returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "User credentials"
// @Success 200 {object} models.AuthResult "Login successful"
// @Failure 400 {object} models.AuthResult "Malformed request body"
// @Failure 401 {object} models.AuthResult "Invalid credentials"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, models.AuthFailure("Invalid request data", "invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res := h.auth.Login(r.Context(), req.Email, req.Password)
	if !res.Success {
		log.Info("login rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, res)
		return
	}

	log.Info("login success", slog.String("email", req.Email))
	render.JSON(w, r, res)
}
