package models

import "time"

// NewsletterSubscription tracks a mailing-list opt-in. Rows are never
// deleted: unsubscribing flips IsActive and records the timestamp so a
// later subscribe reactivates the same row.
type NewsletterSubscription struct {
	ID               int
	Email            string
	FirstName        *string
	LastName         *string
	SubscribedAt     time.Time
	IsActive         bool
	UnsubscribedAt   *time.Time
	UserID           *int
	UnsubscribeToken string
}

// NewsletterEvent is the message published to the mailing exchange when a
// subscription is created or reactivated.
type NewsletterEvent struct {
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	UserID       *int      `json:"user_id,omitempty"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
