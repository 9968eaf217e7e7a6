package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) *models.AuthResult {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*models.AuthResult)
	return res
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock)

	profile := &models.UserProfile{ID: 42, Email: "user@example.com"}

	tests := []struct {
		name           string
		requestBody    any
		mockResult     *models.AuthResult
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		wantToken      string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockResult:     models.AuthSuccess(models.MsgLoginSuccessful, "tok", profile),
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    models.MsgLoginSuccessful,
			wantToken:      "tok",
		},
		{
			name:           "rejected credentials",
			requestBody:    Request{Email: "user@example.com", Password: "wrong"},
			mockResult:     models.AuthFailure(models.MsgInvalidCredentials, models.ErrTextInvalidCredentials),
			wantStatusCode: http.StatusUnauthorized,
			wantSuccess:    false,
			wantMessage:    models.MsgInvalidCredentials,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "Invalid request data",
		},
		{
			name:           "validation error - bad email",
			requestBody:    Request{Email: "not-an-email", Password: "password123"},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockResult != nil {
				req := tt.requestBody.(Request)
				authMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockResult).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantStatusCode == http.StatusUnprocessableEntity {
				assert.Equal(t, "Error", got["status"])
				return
			}

			assert.Equal(t, tt.wantSuccess, got["success"])
			assert.Equal(t, tt.wantMessage, got["message"])
			if tt.wantToken != "" {
				assert.Equal(t, tt.wantToken, got["token"])
			}

			if tt.mockResult != nil {
				authMock.AssertExpectations(t)
			}
		})
	}
}
