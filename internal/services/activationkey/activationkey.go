// Package services implements activation-key validation and creation.
//
// Validation walks a fixed sequence of checks and stops at the first
// failure; the caller always receives a structured verdict, never a raw
// storage error.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// Verdict error messages, fixed wording the desktop client matches on.
const (
	errKeyRequired     = "Activation key is required"
	errKeyInvalid      = "Invalid activation key"
	errKeyNotActivated = "Activation key has not been activated"
	errKeyExpired      = "Activation key has expired"
	errSubInactive     = "Subscription is inactive or expired"
	errUserNotFound    = "User not found"

	msgActivationOK = "Activation successful"
	msgKeyCreated   = "Activation key created successfully"
)

// ActivationKeyRepository is the storage contract for activation keys.
type ActivationKeyRepository interface {
	// GetActivationKeyWithUser returns an active key with the owning user
	// and subscription joined, or models.ErrKeyNotFound.
	GetActivationKeyWithUser(ctx context.Context, key string) (*models.ActivationKey, error)
	// IsKeyValid reports key existence, activation and expiry in one probe.
	IsKeyValid(ctx context.Context, key string) (bool, error)
	// CreateActivationKey inserts a key row and returns its id.
	CreateActivationKey(ctx context.Context, key models.ActivationKey) (int, error)
}

// SubscriptionGate answers the entitlement question for a user.
type SubscriptionGate interface {
	HasActiveSubscription(ctx context.Context, userID int) (bool, error)
}

// ActivationKeyService validates and creates activation keys.
type ActivationKeyService struct {
	keys ActivationKeyRepository
	gate SubscriptionGate
	log  *slog.Logger
}

// NewActivationKeyService creates an ActivationKeyService.
func NewActivationKeyService(keys ActivationKeyRepository, gate SubscriptionGate, log *slog.Logger) *ActivationKeyService {
	return &ActivationKeyService{
		keys: keys,
		gate: gate,
		log:  log,
	}
}

// ValidateKey evaluates the key against the full rule chain, in order:
// present, known+active, activated, unexpired, owner entitled, owner
// loadable. The first failing rule decides the verdict. Unexpected
// failures are folded into an error verdict so this operation never
// surfaces a transport failure.
func (s *ActivationKeyService) ValidateKey(ctx context.Context, key string) *models.KeyVerdict {
	verdict, err := s.validate(ctx, key)
	if err != nil {
		s.log.Error("activation key validation failed", sl.Err(err))
		return &models.KeyVerdict{
			Valid: false,
			Error: fmt.Sprintf("An error occurred: %s", err),
		}
	}
	return verdict
}

func (s *ActivationKeyService) validate(ctx context.Context, key string) (*models.KeyVerdict, error) {
	if strings.TrimSpace(key) == "" {
		return &models.KeyVerdict{Valid: false, Error: errKeyRequired}, nil
	}

	ak, err := s.keys.GetActivationKeyWithUser(ctx, key)
	if err != nil {
		if errors.Is(err, models.ErrKeyNotFound) {
			return &models.KeyVerdict{Valid: false, Error: errKeyInvalid}, nil
		}
		return nil, err
	}

	if ak.ActivatedAt == nil {
		return &models.KeyVerdict{Valid: false, Error: errKeyNotActivated}, nil
	}

	if ak.ExpiresAt != nil && !ak.ExpiresAt.After(time.Now().UTC()) {
		return &models.KeyVerdict{Valid: false, Error: errKeyExpired}, nil
	}

	entitled, err := s.gate.HasActiveSubscription(ctx, ak.UserID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return &models.KeyVerdict{
			Valid:              false,
			SubscriptionActive: false,
			SubscriptionStatus: string(models.StatusInactive),
			Error:              errSubInactive,
		}, nil
	}

	user := ak.User
	if user == nil {
		return &models.KeyVerdict{Valid: false, Error: errUserNotFound}, nil
	}

	status := string(models.StatusActive)
	if user.Subscription != nil {
		status = string(user.Subscription.Status)
	}

	return &models.KeyVerdict{
		Valid:              true,
		SubscriptionActive: true,
		SubscriptionStatus: status,
		User:               user.Profile(),
		Message:            msgActivationOK,
	}, nil
}

// IsKeyValid is the lightweight existence/activation/expiry probe without
// the subscription check.
func (s *ActivationKeyService) IsKeyValid(ctx context.Context, key string) (bool, error) {
	return s.keys.IsKeyValid(ctx, key)
}

// CreateKey generates a key for userID, stores it pre-activated with a
// one-year expiry, and returns a verdict envelope.
func (s *ActivationKeyService) CreateKey(ctx context.Context, userID int, notes *string) *models.KeyVerdict {
	now := time.Now().UTC()
	expires := now.AddDate(1, 0, 0)
	ak := models.ActivationKey{
		Key:         generateKey(),
		UserID:      userID,
		ActivatedAt: &now,
		ExpiresAt:   &expires,
		IsActive:    true,
		Notes:       notes,
	}

	if _, err := s.keys.CreateActivationKey(ctx, ak); err != nil {
		s.log.Error("failed to create activation key", sl.Err(err), slog.Int("user_id", userID))
		return &models.KeyVerdict{
			Valid: false,
			Error: fmt.Sprintf("Failed to create activation key: %s", err),
		}
	}

	s.log.Info("created activation key", slog.Int("user_id", userID))
	return &models.KeyVerdict{
		Valid:   true,
		Message: msgKeyCreated,
	}
}

// generateKey draws four blocks in [1000,9999). Not collision-checked; the
// unique index on the key column rejects the rare duplicate.
func generateKey() string {
	parts := make([]string, 4)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", 1000+rand.Intn(8999))
	}
	return strings.Join(parts, "-")
}
