package models

// Messages returned by the auth flows. Kept as constants so handlers and
// tests agree on the exact wording.
const (
	MsgLoginSuccessful        = "Login successful"
	MsgRegistrationSuccessful = "Registration successful. You are now logged in."
	MsgInvalidCredentials     = "Invalid email or password"
	MsgUserAlreadyExists      = "User with this email already exists"
	MsgUserCreationFailed     = "Failed to create user account"
	MsgRefreshNotImplemented  = "Refresh token functionality not implemented"
	MsgPasswordResetSent      = "Password reset instructions sent to your email"
	MsgPasswordResetDone      = "Password reset successful"
	MsgLogoutSuccessful       = "Logout successful"
	MsgInternalError          = "Internal server error"

	ErrTextInvalidCredentials = "Invalid credentials"
	ErrTextEmailRegistered    = "Email already registered"
	ErrTextRegistrationFailed = "Registration failed"
	ErrTextFeatureUnavailable = "Feature not available"
)

// AuthResult is the envelope returned by every auth orchestrator flow.
type AuthResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *UserProfile `json:"user,omitempty"`
	Errors  []string     `json:"errors,omitempty"`
}

// AuthSuccess builds a success envelope; token and user may be empty for
// flows that do not issue a session.
func AuthSuccess(message, token string, user *UserProfile) *AuthResult {
	return &AuthResult{
		Success: true,
		Message: message,
		Token:   token,
		User:    user,
	}
}

// AuthFailure builds a failure envelope with a human-readable message and
// non-sensitive error details.
func AuthFailure(message string, errs ...string) *AuthResult {
	return &AuthResult{
		Success: false,
		Message: message,
		Errors:  errs,
	}
}
