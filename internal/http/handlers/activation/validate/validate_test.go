package validate

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

type KeyServiceMock struct {
	mock.Mock
}

func (m *KeyServiceMock) ValidateKey(ctx context.Context, key string) *models.KeyVerdict {
	args := m.Called(ctx, key)
	res, _ := args.Get(0).(*models.KeyVerdict)
	return res
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestValidateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name        string
		requestBody any
		expectKey   string
		verdict     *models.KeyVerdict
		wantValid   bool
		wantError   string
	}{
		{
			name:        "valid key",
			requestBody: Request{Key: "1234-5678-9012-3456"},
			expectKey:   "1234-5678-9012-3456",
			verdict: &models.KeyVerdict{
				Valid:              true,
				SubscriptionActive: true,
				SubscriptionStatus: "active",
				Message:            "Activation successful",
			},
			wantValid: true,
		},
		{
			name:        "invalid key",
			requestBody: Request{Key: "0000-0000-0000-0000"},
			expectKey:   "0000-0000-0000-0000",
			verdict:     &models.KeyVerdict{Valid: false, Error: "Invalid activation key"},
			wantValid:   false,
			wantError:   "Invalid activation key",
		},
		{
			name:        "unreadable body maps to missing key",
			requestBody: "not a json",
			expectKey:   "",
			verdict:     &models.KeyVerdict{Valid: false, Error: "Activation key is required"},
			wantValid:   false,
			wantError:   "Activation key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keysMock := new(KeyServiceMock)
			keysMock.On("ValidateKey", mock.Anything, tt.expectKey).Return(tt.verdict).Once()

			handler := New(newNoopLogger(), keysMock)

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

			req := httptest.NewRequest(http.MethodPost, "/activation/validate", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			// Verdicts always travel on 200.
			assert.Equal(t, http.StatusOK, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantValid, got["valid"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			keysMock.AssertExpectations(t)
		})
	}
}
