package models

import "time"

// ActivationKey is a license credential in the form NNNN-NNNN-NNNN-NNNN.
// A key grants access only while it is active, has been activated and has
// not passed its expiry; on top of that the owning user must hold an
// entitled subscription.
type ActivationKey struct {
	ID          int
	Key         string
	UserID      int
	CreatedAt   time.Time
	ActivatedAt *time.Time
	ExpiresAt   *time.Time
	IsActive    bool
	Notes       *string

	// User is populated only by GetActivationKeyWithUser.
	User *User
}

// KeyVerdict is the structured result of activation-key operations.
// Validation always produces a verdict, never a transport error.
type KeyVerdict struct {
	Valid              bool         `json:"valid"`
	SubscriptionActive bool         `json:"subscriptionActive"`
	SubscriptionStatus string       `json:"subscriptionStatus,omitempty"`
	User               *UserProfile `json:"user,omitempty"`
	Message            string       `json:"message,omitempty"`
	Error              string       `json:"error,omitempty"`
}
