package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// CreateActivationKey inserts a key row and returns its id. A duplicate key
// string maps to models.ErrKeyExists.
func (s *Storage) CreateActivationKey(ctx context.Context, key models.ActivationKey) (int, error) {
	const op = "storage.CreateActivationKey"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO activation_keys (key, user_id, activated_at, expires_at, is_active, notes)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		key.Key, key.UserID, key.ActivatedAt, key.ExpiresAt, key.IsActive, key.Notes).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrKeyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetActivationKeyWithUser returns an active key by exact match, with the
// owning user and that user's subscription joined in one query.
func (s *Storage) GetActivationKeyWithUser(ctx context.Context, key string) (*models.ActivationKey, error) {
	const op = "storage.GetActivationKeyWithUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ak.id, ak.key, ak.user_id, ak.created_at, ak.activated_at,
			      ak.expires_at, ak.is_active, ak.notes,
			      u.id, u.email, u.first_name, u.last_name, u.password_hash,
			      u.created_at, u.last_login_at, u.is_active,
			      s.id, s.plan_name, s.status, s.start_date, s.end_date,
			      s.created_at, s.updated_at, s.is_active,
			      s.stripe_subscription_id, s.stripe_customer_id
			  FROM activation_keys ak
			  JOIN users u ON u.id = ak.user_id
			  LEFT JOIN subscriptions s ON s.user_id = u.id AND s.is_active
			  WHERE ak.key = $1 AND ak.is_active`
	row := s.DB.QueryRowContext(ctx, query, key)

	ak := &models.ActivationKey{}
	var activatedAt, expiresAt sql.NullTime
	var notes sql.NullString

	u := &models.User{}
	var lastLoginAt sql.NullTime
	var subID sql.NullInt64
	var planName, status sql.NullString
	var startDate, endDate, subCreatedAt, subUpdatedAt sql.NullTime
	var subIsActive sql.NullBool
	var stripeSubID, stripeCustID sql.NullString

	if err := row.Scan(&ak.ID, &ak.Key, &ak.UserID, &ak.CreatedAt, &activatedAt,
		&expiresAt, &ak.IsActive, &notes,
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.CreatedAt, &lastLoginAt, &u.IsActive,
		&subID, &planName, &status, &startDate, &endDate,
		&subCreatedAt, &subUpdatedAt, &subIsActive,
		&stripeSubID, &stripeCustID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if activatedAt.Valid {
		ak.ActivatedAt = &activatedAt.Time
	}
	if expiresAt.Valid {
		ak.ExpiresAt = &expiresAt.Time
	}
	if notes.Valid {
		ak.Notes = &notes.String
	}
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}

	if subID.Valid {
		sub := &models.Subscription{
			ID:        int(subID.Int64),
			UserID:    u.ID,
			PlanName:  planName.String,
			Status:    models.SubscriptionStatus(status.String),
			StartDate: startDate.Time,
			CreatedAt: subCreatedAt.Time,
			IsActive:  subIsActive.Bool,
		}
		if endDate.Valid {
			sub.EndDate = &endDate.Time
		}
		if subUpdatedAt.Valid {
			sub.UpdatedAt = &subUpdatedAt.Time
		}
		if stripeSubID.Valid {
			sub.StripeSubscriptionID = &stripeSubID.String
		}
		if stripeCustID.Valid {
			sub.StripeCustomerID = &stripeCustID.String
		}
		u.Subscription = sub
	}

	ak.User = u
	return ak, nil
}

// IsKeyValid reports whether the key exists, is active, has been activated
// and has not expired. It does not look at the owner's subscription.
func (s *Storage) IsKeyValid(ctx context.Context, key string) (bool, error) {
	const op = "storage.IsKeyValid"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM activation_keys
			      WHERE key = $1 AND is_active AND activated_at IS NOT NULL
			        AND (expires_at IS NULL OR expires_at > NOW())
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
