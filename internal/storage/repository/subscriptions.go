package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// CreateSubscription inserts a subscription row and returns its id.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO subscriptions (user_id, plan_name, status, start_date, end_date,
			      is_active, stripe_subscription_id, stripe_customer_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.PlanName, string(sub.Status), sub.StartDate, sub.EndDate,
		sub.IsActive, sub.StripeSubscriptionID, sub.StripeCustomerID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubscriptionByUserID returns the user's subscription row, active or
// not in entitlement terms, as long as the row itself is live.
func (s *Storage) GetSubscriptionByUserID(ctx context.Context, userID int) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_name, status, start_date, end_date,
			      created_at, updated_at, is_active, stripe_subscription_id, stripe_customer_id
			  FROM subscriptions
			  WHERE user_id = $1 AND is_active
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userID)

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetActiveSubscriptionByUserID returns the subscription only when it
// currently grants access.
func (s *Storage) GetActiveSubscriptionByUserID(ctx context.Context, userID int) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscriptionByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_name, status, start_date, end_date,
			      created_at, updated_at, is_active, stripe_subscription_id, stripe_customer_id
			  FROM subscriptions
			  WHERE user_id = $1 AND is_active AND status = 'active'
			    AND (end_date IS NULL OR end_date > NOW())
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userID)

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// HasActiveSubscription reports whether the user holds an entitling
// subscription right now.
func (s *Storage) HasActiveSubscription(ctx context.Context, userID int) (bool, error) {
	const op = "storage.HasActiveSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions
			      WHERE user_id = $1 AND is_active AND status = 'active'
			        AND (end_date IS NULL OR end_date > NOW())
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateSubscriptionStatus sets the status and stamps updated_at.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id int, status models.SubscriptionStatus) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, updated_at = NOW()
			  WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, string(status), id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var endDate, updatedAt sql.NullTime
	var stripeSubID, stripeCustID sql.NullString
	var status string

	if err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanName, &status, &sub.StartDate,
		&endDate, &sub.CreatedAt, &updatedAt, &sub.IsActive,
		&stripeSubID, &stripeCustID); err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionStatus(status)

	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	if updatedAt.Valid {
		sub.UpdatedAt = &updatedAt.Time
	}
	if stripeSubID.Valid {
		sub.StripeSubscriptionID = &stripeSubID.String
	}
	if stripeCustID.Valid {
		sub.StripeCustomerID = &stripeCustID.String
	}
	return sub, nil
}
