// Package models contains the domain structures shared by the service and
// storage layers: users, subscriptions, activation keys, newsletter rows and
// the response envelopes returned by the auth and activation flows.
package models

import "time"

// User is the aggregate root. A user owns at most one subscription and any
// number of activation keys; both are removed together with the user.
type User struct {
	ID           int
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool

	// Subscription is populated only by the joined fetch paths
	// (GetUserByIDWithSubscription, GetActivationKeyWithUser); nil otherwise.
	Subscription *Subscription
}

// UserProfile is the projection of a user returned to API callers.
// It never carries the password hash.
type UserProfile struct {
	ID           int               `json:"id"`
	Email        string            `json:"email"`
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	Subscription *SubscriptionInfo `json:"subscription,omitempty"`
}

// Profile projects the user into its API shape.
func (u *User) Profile() *UserProfile {
	p := &UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if u.Subscription != nil {
		p.Subscription = u.Subscription.Info()
	}
	return p
}
