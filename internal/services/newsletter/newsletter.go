// Package services implements the newsletter bookkeeping: subscribe with
// row reactivation, unsubscribe, and a best-effort event publish to the
// mailing exchange.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/mousejiggler/jiggler-backend/internal/lib/rabbitmq"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// NewsletterRepository is the storage contract for newsletter rows.
type NewsletterRepository interface {
	// GetNewsletterByEmail returns the row or (nil, nil) when absent.
	GetNewsletterByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	// CreateNewsletterSubscription inserts a row and returns its id.
	CreateNewsletterSubscription(ctx context.Context, n models.NewsletterSubscription) (int, error)
	// UpdateNewsletterSubscription rewrites the mutable fields of a row.
	UpdateNewsletterSubscription(ctx context.Context, n models.NewsletterSubscription) error
	// IsNewsletterSubscribed reports an active opt-in for the email.
	IsNewsletterSubscribed(ctx context.Context, email string) (bool, error)
	// ListActiveNewsletterSubscriptions returns every active opt-in.
	ListActiveNewsletterSubscriptions(ctx context.Context) ([]*models.NewsletterSubscription, error)
}

// NewsletterService manages mailing-list opt-ins.
type NewsletterService struct {
	repo    NewsletterRepository
	channel *amqp.Channel
	log     *slog.Logger
}

// NewNewsletterService creates a NewsletterService. channel may be nil when
// no broker is configured; events are then skipped.
func NewNewsletterService(repo NewsletterRepository, channel *amqp.Channel, log *slog.Logger) *NewsletterService {
	return &NewsletterService{
		repo:    repo,
		channel: channel,
		log:     log,
	}
}

// Subscribe opts an email in. An inactive existing row is reactivated
// instead of duplicated; an already-active row is left untouched. The
// mailing event is best-effort.
func (s *NewsletterService) Subscribe(ctx context.Context, email, firstName, lastName string, userID *int) error {
	existing, err := s.repo.GetNewsletterByEmail(ctx, email)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.IsActive {
			return nil
		}
		existing.IsActive = true
		existing.UnsubscribedAt = nil
		existing.FirstName = optional(firstName)
		existing.LastName = optional(lastName)
		existing.UserID = userID
		if err := s.repo.UpdateNewsletterSubscription(ctx, *existing); err != nil {
			return err
		}
		s.publishSubscribed(email, firstName, lastName, userID)
		return nil
	}

	n := models.NewsletterSubscription{
		Email:            email,
		FirstName:        optional(firstName),
		LastName:         optional(lastName),
		IsActive:         true,
		UserID:           userID,
		UnsubscribeToken: uuid.NewString(),
	}
	if _, err := s.repo.CreateNewsletterSubscription(ctx, n); err != nil {
		return err
	}

	s.log.Info("newsletter subscription added", slog.String("email", email))
	s.publishSubscribed(email, firstName, lastName, userID)
	return nil
}

// Unsubscribe deactivates the row for the email. Returns false when no
// active subscription exists.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) (bool, error) {
	existing, err := s.repo.GetNewsletterByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing == nil || !existing.IsActive {
		return false, nil
	}

	now := time.Now().UTC()
	existing.IsActive = false
	existing.UnsubscribedAt = &now
	if err := s.repo.UpdateNewsletterSubscription(ctx, *existing); err != nil {
		return false, err
	}

	s.log.Info("newsletter subscription removed", slog.String("email", email))
	return true, nil
}

// IsSubscribed reports whether the email holds an active opt-in.
func (s *NewsletterService) IsSubscribed(ctx context.Context, email string) (bool, error) {
	return s.repo.IsNewsletterSubscribed(ctx, email)
}

// ListActive returns every active opt-in, for the mailing pipeline.
func (s *NewsletterService) ListActive(ctx context.Context) ([]*models.NewsletterSubscription, error) {
	return s.repo.ListActiveNewsletterSubscriptions(ctx)
}

// publishSubscribed emits the mailing event; failures are logged only.
func (s *NewsletterService) publishSubscribed(email, firstName, lastName string, userID *int) {
	if s.channel == nil {
		return
	}
	event := models.NewsletterEvent{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		UserID:       userID,
		SubscribedAt: time.Now().UTC(),
	}
	if err := rabbitmq.PublishNewsletterEvent(s.channel, rabbitmq.RoutingKeySubscribed, event); err != nil {
		s.log.Warn("failed to publish newsletter event", sl.Err(err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
