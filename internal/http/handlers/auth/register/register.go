// Package register implements the HTTP handler for account creation.
//
// A successful registration also logs the user in: the response carries
// a fresh session token. Duplicate emails answer 409.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mousejiggler/jiggler-backend/internal/http/response"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/models"
	authservice "github.com/mousejiggler/jiggler-backend/internal/services/auth"
)

// Request carries the registration form.
type Request struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	// SubscribeToNewsletter opts the new account into the mailing list.
	SubscribeToNewsletter bool `json:"subscribeToNewsletter"`
}

// Service is the slice of the auth service the handler needs.
type Service interface {
	Register(ctx context.Context, req authservice.RegisterRequest) *models.AuthResult
}

// Handler serves registration requests.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a register Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Register a new user
// @Description Creates an account and returns a session token for it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Registration form"
// @Success 200 {object} models.AuthResult "Registration successful"
// @Failure 400 {object} response.ErrorResponse "Malformed request body"
// @Failure 409 {object} models.AuthResult "Email already registered"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	res := h.auth.Register(r.Context(), authservice.RegisterRequest{
		Email:                 req.Email,
		Password:              req.Password,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		SubscribeToNewsletter: req.SubscribeToNewsletter,
	})
	if !res.Success {
		log.Info("registration rejected", slog.String("email", req.Email))
		if slices.Contains(res.Errors, models.ErrTextEmailRegistered) {
			w.WriteHeader(http.StatusConflict)
		} else {
			w.WriteHeader(http.StatusBadRequest)
		}
		render.JSON(w, r, res)
		return
	}

	log.Info("registration success", slog.String("email", req.Email))
	render.JSON(w, r, res)
}
