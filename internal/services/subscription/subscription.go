// Package services implements the subscription gate: the single place that
// decides whether a user currently holds an entitling subscription.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// SubscriptionRepository is the storage contract for subscriptions.
type SubscriptionRepository interface {
	// CreateSubscription inserts a subscription and returns its id.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// GetSubscriptionByUserID returns the user's subscription row or
	// models.ErrSubscriptionNotFound.
	GetSubscriptionByUserID(ctx context.Context, userID int) (*models.Subscription, error)
	// HasActiveSubscription reports whether the user is entitled right now.
	HasActiveSubscription(ctx context.Context, userID int) (bool, error)
	// UpdateSubscriptionStatus sets the status and stamps updated_at.
	UpdateSubscriptionStatus(ctx context.Context, id int, status models.SubscriptionStatus) error
}

// SubscriptionService exposes the gate operations over the repository.
type SubscriptionService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

// HasActiveSubscription reports whether the user holds a subscription that
// is active, carries the "active" status and has not passed its end date.
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, userID int) (bool, error) {
	return s.repo.HasActiveSubscription(ctx, userID)
}

// GetSubscription returns the user's current subscription, entitled or not,
// or nil when the user has none.
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID int) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrSubscriptionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// CreateSubscription creates an immediately-active subscription on the
// given plan, starting now.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID int, planName string) (*models.Subscription, error) {
	sub := models.Subscription{
		UserID:    userID,
		PlanName:  planName,
		Status:    models.StatusActive,
		StartDate: time.Now().UTC(),
		IsActive:  true,
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	s.log.Info("created subscription",
		slog.Int("id", id), slog.Int("user_id", userID), slog.String("plan", planName))
	return &sub, nil
}

// UpdateStatus parses statusName case-insensitively and applies it to the
// user's subscription. Unknown names and missing subscriptions both return
// false without an error; only storage failures are unexpected here.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, userID int, statusName string) bool {
	status, ok := models.ParseSubscriptionStatus(statusName)
	if !ok {
		s.log.Warn("unknown subscription status", slog.String("status", statusName))
		return false
	}

	sub, err := s.repo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrSubscriptionNotFound) {
			s.log.Error("failed to load subscription", sl.Err(err))
		}
		return false
	}

	if err := s.repo.UpdateSubscriptionStatus(ctx, sub.ID, status); err != nil {
		s.log.Error("failed to update subscription status", sl.Err(err))
		return false
	}
	return true
}
