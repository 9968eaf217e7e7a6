package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// CreateUser inserts a new user and returns its id. A duplicate email maps
// to models.ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO users (email, first_name, last_name, password_hash, is_active)
			  VALUES ($1, $2, $3, $4, TRUE)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.PasswordHash).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail returns an active user by exact (case-sensitive) email,
// including the password hash for credential verification.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, first_name, last_name, password_hash, created_at,
			      last_login_at, is_active
			  FROM users
			  WHERE email = $1 AND is_active`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var lastLoginAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.CreatedAt, &lastLoginAt, &u.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return u, nil
}

// GetUserByIDWithSubscription returns an active user with its subscription
// joined in a single query, so callers never walk the graph lazily.
func (s *Storage) GetUserByIDWithSubscription(ctx context.Context, id int) (*models.User, error) {
	const op = "storage.GetUserByIDWithSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash,
			      u.created_at, u.last_login_at, u.is_active,
			      s.id, s.plan_name, s.status, s.start_date, s.end_date,
			      s.created_at, s.updated_at, s.is_active,
			      s.stripe_subscription_id, s.stripe_customer_id
			  FROM users u
			  LEFT JOIN subscriptions s ON s.user_id = u.id AND s.is_active
			  WHERE u.id = $1 AND u.is_active`
	row := s.DB.QueryRowContext(ctx, query, id)

	u, err := scanUserWithSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UserExistsByEmail reports whether an active user holds the given email.
func (s *Storage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.UserExistsByEmail"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND is_active)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateLastLogin stamps the user's last login time with NOW().
func (s *Storage) UpdateLastLogin(ctx context.Context, userID int) error {
	const op = "storage.UpdateLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_login_at = NOW() WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUserWithSubscription scans a users row left-joined with subscriptions.
func scanUserWithSubscription(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var lastLoginAt sql.NullTime

	var subID sql.NullInt64
	var planName, status sql.NullString
	var startDate, endDate, subCreatedAt, subUpdatedAt sql.NullTime
	var subIsActive sql.NullBool
	var stripeSubID, stripeCustID sql.NullString

	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.CreatedAt, &lastLoginAt, &u.IsActive,
		&subID, &planName, &status, &startDate, &endDate,
		&subCreatedAt, &subUpdatedAt, &subIsActive,
		&stripeSubID, &stripeCustID); err != nil {
		return nil, err
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
	return u, nil
}
