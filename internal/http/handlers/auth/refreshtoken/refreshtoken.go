// Package refreshtoken implements the refresh-token HTTP handler.
//
// Token refresh is not supported; the endpoint exists so clients get an
// explicit failure envelope instead of a 404.
package refreshtoken

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

// Request carries the refresh token to exchange.
type Request struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Service is the slice of the auth service the handler needs.
type Service interface {
	RefreshToken(ctx context.Context, refreshToken string) *models.AuthResult
}

// Handler serves refresh-token requests.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New creates a refresh-token Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Exchange a refresh token
// @Description Not implemented; always answers with a failure envelope.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Refresh token"
// @Success 200 {object} models.AuthResult
// @Failure 400 {object} response.ErrorResponse "Malformed request body"
// @Failure 401 {object} models.AuthResult "Refresh not available"
// @Router /auth/refresh-token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refreshtoken"

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

	res := h.auth.RefreshToken(r.Context(), req.RefreshToken)
	if !res.Success {
		w.WriteHeader(http.StatusUnauthorized)
	}
	render.JSON(w, r, res)
}
