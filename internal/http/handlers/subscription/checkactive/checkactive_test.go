package checkactive

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

func (m *AuthServiceMock) GetUserFromToken(ctx context.Context, token string) *models.UserProfile {
	args := m.Called(ctx, token)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile
}

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) HasActiveSubscription(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCheckActiveHandler_ServeHTTP(t *testing.T) {
	profile := &models.UserProfile{ID: 42, Email: "user@example.com"}

	tests := []struct {
		name           string
		requestBody    string
		mockToken      string
		mockProfile    *models.UserProfile
		mockActive     bool
		wantStatusCode int
		wantActive     *bool
		wantMessage    string
	}{
		{
			name:           "active subscription",
			requestBody:    `"good-token"`,
			mockToken:      "good-token",
			mockProfile:    profile,
			mockActive:     true,
			wantStatusCode: http.StatusOK,
			wantActive:     boolPtr(true),
		},
		{
			name:           "no active subscription",
			requestBody:    `"good-token"`,
			mockToken:      "good-token",
			mockProfile:    profile,
			mockActive:     false,
			wantStatusCode: http.StatusOK,
			wantActive:     boolPtr(false),
		},
		{
			name:           "token does not resolve",
			requestBody:    `"stale-token"`,
			mockToken:      "stale-token",
			mockProfile:    nil,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Invalid or expired token",
		},
		{
			name:           "empty json string body",
			requestBody:    `""`,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Token is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			subsMock := new(SubscriptionServiceMock)
			if tt.mockToken != "" {
				authMock.On("GetUserFromToken", mock.Anything, tt.mockToken).
					Return(tt.mockProfile).Once()
			}
			if tt.mockProfile != nil {
				subsMock.On("HasActiveSubscription", mock.Anything, tt.mockProfile.ID).
					Return(tt.mockActive, nil).Once()
			}
			handler := New(newNoopLogger(), authMock, subsMock)

			req := httptest.NewRequest(http.MethodPost, "/subscription/check-active",
				bytes.NewReader([]byte(tt.requestBody)))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			assert.NotPanics(t, func() {
				handler.ServeHTTP(rec, req)
			})

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantActive != nil {
				assert.Equal(t, *tt.wantActive, got["hasActiveSubscription"])
			} else {
				assert.Equal(t, false, got["success"])
				assert.Equal(t, tt.wantMessage, got["message"])
			}

			authMock.AssertExpectations(t)
			subsMock.AssertExpectations(t)
		})
	}
}

func boolPtr(b bool) *bool { return &b }
