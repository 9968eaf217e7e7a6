// Package services implements the auth orchestrator: registration, login,
// token introspection and the documented no-op flows around them.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mousejiggler/jiggler-backend/internal/lib/jwt"
	"github.com/mousejiggler/jiggler-backend/internal/lib/password"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/models"
)

// UserRepository is the storage contract the auth flows need.
type UserRepository interface {
	// CreateUser inserts a user; duplicate emails map to models.ErrEmailTaken.
	CreateUser(ctx context.Context, user models.User) (int, error)
	// GetUserByEmail returns an active user including the password hash,
	// or models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByIDWithSubscription returns a user with its subscription joined.
	GetUserByIDWithSubscription(ctx context.Context, id int) (*models.User, error)
	// UserExistsByEmail reports whether an active user holds the email.
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateLastLogin stamps the user's last login time.
	UpdateLastLogin(ctx context.Context, userID int) error
}

// NewsletterSubscriber is the best-effort opt-in collaborator. Failures
// are logged and discarded; they never fail registration.
type NewsletterSubscriber interface {
	Subscribe(ctx context.Context, email, firstName, lastName string, userID *int) error
}

// RegisterRequest carries the registration inputs.
type RegisterRequest struct {
	Email                 string
	Password              string
	FirstName             string
	LastName              string
	SubscribeToNewsletter bool
}

// AuthService composes the password hasher, the token maker and the user
// store into the login/registration flows.
type AuthService struct {
	users      UserRepository
	jwtMaker   jwt.Maker
	newsletter NewsletterSubscriber
	log        *slog.Logger
}

// NewAuthService creates an AuthService. newsletter may be nil when no
// mailing collaborator is configured.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, newsletter NewsletterSubscriber, log *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtMaker:   jwtMaker,
		newsletter: newsletter,
		log:        log,
	}
}

// Login verifies the credentials and issues a session token. A missing
// user and a wrong password produce byte-identical failure envelopes so
// the endpoint leaks nothing about account existence.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) *models.AuthResult {
	log := s.log.With(slog.String("op", "auth.Login"))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("login failed: user not found")
			return models.AuthFailure(models.MsgInvalidCredentials, models.ErrTextInvalidCredentials)
		}
		log.Error("login failed", sl.Err(err))
		return models.AuthFailure(models.MsgInternalError, models.MsgInternalError)
	}

	if !password.Verify(rawPassword, user.PasswordHash) {
		log.Warn("login failed: invalid password")
		return models.AuthFailure(models.MsgInvalidCredentials, models.ErrTextInvalidCredentials)
	}

	full, err := s.users.GetUserByIDWithSubscription(ctx, user.ID)
	if err != nil {
		log.Error("failed to load user profile", sl.Err(err))
		return models.AuthFailure(models.MsgInternalError, models.MsgInternalError)
	}

	token, err := s.jwtMaker.GenerateToken(full.ID, full.Email)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return models.AuthFailure(models.MsgInternalError, models.MsgInternalError)
	}

	// Best-effort: a failed timestamp write must not undo a valid login.
	if err := s.users.UpdateLastLogin(ctx, full.ID); err != nil {
		log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("login successful", slog.Int("user_id", full.ID))
	return models.AuthSuccess(models.MsgLoginSuccessful, token, full.Profile())
}

// Register creates the account, optionally opts the user into the
// newsletter, and logs the user straight in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) *models.AuthResult {
	log := s.log.With(slog.String("op", "auth.Register"))

	exists, err := s.users.UserExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Error("failed to check existing user", sl.Err(err))
		return models.AuthFailure(models.MsgInternalError, models.MsgInternalError)
	}
	if exists {
		log.Warn("registration failed: email already registered")
		return models.AuthFailure(models.MsgUserAlreadyExists, models.ErrTextEmailRegistered)
	}

	// Hashing failures propagate as hard failures: an unhashable password
	// must never produce an account.
	hash, err := password.Hash(req.Password)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return models.AuthFailure(models.MsgUserCreationFailed, models.ErrTextRegistrationFailed)
	}

	// New accounts are active immediately; storage persists the same flag.
	userID, err := s.users.CreateUser(ctx, models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			log.Warn("registration failed: email already registered")
			return models.AuthFailure(models.MsgUserAlreadyExists, models.ErrTextEmailRegistered)
		}
		log.Error("failed to create user", sl.Err(err))
		return models.AuthFailure(models.MsgUserCreationFailed, models.ErrTextRegistrationFailed)
	}

	if req.SubscribeToNewsletter && s.newsletter != nil {
		if err := s.newsletter.Subscribe(ctx, req.Email, req.FirstName, req.LastName, &userID); err != nil {
			log.Warn("failed to add newsletter subscription", sl.Err(err))
		}
	}

	created, err := s.users.GetUserByIDWithSubscription(ctx, userID)
	if err != nil {
		log.Error("failed to load created user", sl.Err(err))
		return models.AuthFailure(models.MsgUserCreationFailed, models.ErrTextRegistrationFailed)
	}

	token, err := s.jwtMaker.GenerateToken(created.ID, created.Email)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return models.AuthFailure(models.MsgInternalError, models.MsgInternalError)
	}

	if err := s.users.UpdateLastLogin(ctx, created.ID); err != nil {
		log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("registration successful", slog.Int("user_id", created.ID))
	return models.AuthSuccess(models.MsgRegistrationSuccessful, token, created.Profile())
}

// RefreshToken is not implemented; callers get an explicit failure
// envelope rather than a silent drop.
func (s *AuthService) RefreshToken(_ context.Context, _ string) *models.AuthResult {
	s.log.Info("token refresh requested")
	return models.AuthFailure(models.MsgRefreshNotImplemented, models.ErrTextFeatureUnavailable)
}

// ForgotPassword acknowledges the request without sending anything.
// TODO: wire a reset-token mail once the mailing pipeline handles
// transactional messages.
func (s *AuthService) ForgotPassword(_ context.Context, email string) *models.AuthResult {
	s.log.Info("password reset requested", slog.String("email", email))
	return models.AuthSuccess(models.MsgPasswordResetSent, "", nil)
}

// ResetPassword acknowledges the confirmation without mutating anything.
func (s *AuthService) ResetPassword(_ context.Context, email string) *models.AuthResult {
	s.log.Info("password reset confirmation", slog.String("email", email))
	return models.AuthSuccess(models.MsgPasswordResetDone, "", nil)
}

// Logout performs no invalidation: tokens are stateless and stay valid
// until natural expiry.
func (s *AuthService) Logout(_ context.Context, _ string) {
	s.log.Info("user logout requested")
}

// ValidateToken reports token validity without loading the user.
func (s *AuthService) ValidateToken(_ context.Context, token string) bool {
	return s.jwtMaker.ValidateToken(token)
}

// GetUserFromToken validates the token and loads the subject's profile.
// Any failure yields nil, never an error to the caller.
func (s *AuthService) GetUserFromToken(ctx context.Context, token string) *models.UserProfile {
	userID, err := s.jwtMaker.ExtractUserID(token)
	if err != nil {
		return nil
	}
	user, err := s.users.GetUserByIDWithSubscription(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load user from token", sl.Err(err))
		return nil
	}
	return user.Profile()
}
