package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// GetNewsletterByEmail returns the newsletter row for the email, or
// (nil, nil) when none exists.
func (s *Storage) GetNewsletterByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	const op = "storage.GetNewsletterByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, first_name, last_name, subscribed_at, is_active,
			      unsubscribed_at, user_id, unsubscribe_token
			  FROM newsletter_subscriptions
			  WHERE email = $1`
	n := &models.NewsletterSubscription{}
	var firstName, lastName sql.NullString
	var unsubscribedAt sql.NullTime
	var userID sql.NullInt64

	err := s.DB.QueryRowContext(ctx, query, email).Scan(&n.ID, &n.Email, &firstName,
		&lastName, &n.SubscribedAt, &n.IsActive, &unsubscribedAt, &userID, &n.UnsubscribeToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if firstName.Valid {
		n.FirstName = &firstName.String
	}
	if lastName.Valid {
		n.LastName = &lastName.String
	}
	if unsubscribedAt.Valid {
		n.UnsubscribedAt = &unsubscribedAt.Time
	}
	if userID.Valid {
		id := int(userID.Int64)
		n.UserID = &id
	}
	return n, nil
}

// CreateNewsletterSubscription inserts a newsletter row and returns its id.
func (s *Storage) CreateNewsletterSubscription(ctx context.Context, n models.NewsletterSubscription) (int, error) {
	const op = "storage.CreateNewsletterSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO newsletter_subscriptions
			      (email, first_name, last_name, is_active, user_id, unsubscribe_token)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		n.Email, n.FirstName, n.LastName, n.IsActive, n.UserID, n.UnsubscribeToken).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateNewsletterSubscription rewrites the mutable fields of a newsletter
// row, used both for reactivation and unsubscription.
func (s *Storage) UpdateNewsletterSubscription(ctx context.Context, n models.NewsletterSubscription) error {
	const op = "storage.UpdateNewsletterSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE newsletter_subscriptions
			  SET first_name = $1, last_name = $2, is_active = $3,
			      unsubscribed_at = $4, user_id = $5
			  WHERE id = $6`
	if _, err := s.DB.ExecContext(ctx, query,
		n.FirstName, n.LastName, n.IsActive, n.UnsubscribedAt, n.UserID, n.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsNewsletterSubscribed reports whether the email holds an active opt-in.
func (s *Storage) IsNewsletterSubscribed(ctx context.Context, email string) (bool, error) {
	const op = "storage.IsNewsletterSubscribed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM newsletter_subscriptions WHERE email = $1 AND is_active
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListActiveNewsletterSubscriptions returns every active opt-in.
func (s *Storage) ListActiveNewsletterSubscriptions(ctx context.Context) ([]*models.NewsletterSubscription, error) {
	const op = "storage.ListActiveNewsletterSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, first_name, last_name, subscribed_at, is_active,
			      unsubscribed_at, user_id, unsubscribe_token
			  FROM newsletter_subscriptions
			  WHERE is_active
			  ORDER BY subscribed_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.NewsletterSubscription
	for rows.Next() {
		n := &models.NewsletterSubscription{}
		var firstName, lastName sql.NullString
		var unsubscribedAt sql.NullTime
		var userID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.Email, &firstName, &lastName, &n.SubscribedAt,
			&n.IsActive, &unsubscribedAt, &userID, &n.UnsubscribeToken); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if firstName.Valid {
			n.FirstName = &firstName.String
		}
		if lastName.Valid {
			n.LastName = &lastName.String
		}
		if unsubscribedAt.Valid {
			n.UnsubscribedAt = &unsubscribedAt.Time
		}
		if userID.Valid {
			id := int(userID.Int64)
			n.UserID = &id
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
