package models

import (
	"strings"
	"time"
)

// SubscriptionStatus is the lifecycle state of a subscription.
// Persisted as lowercase text.
type SubscriptionStatus string

const (
	StatusInactive  SubscriptionStatus = "inactive"
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
	StatusSuspended SubscriptionStatus = "suspended"
)

// ParseSubscriptionStatus matches a status name case-insensitively.
// The second result is false for unknown names.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	switch SubscriptionStatus(strings.ToLower(s)) {
	case StatusInactive, StatusActive, StatusCancelled, StatusExpired, StatusSuspended:
		return SubscriptionStatus(strings.ToLower(s)), true
	default:
		return "", false
	}
}

// Subscription is the per-user entitlement record. External billing
// identifiers are stored verbatim; no provider logic lives here.
type Subscription struct {
	ID                   int
	UserID               int
	PlanName             string
	Status               SubscriptionStatus
	StartDate            time.Time
	EndDate              *time.Time
	CreatedAt            time.Time
	UpdatedAt            *time.Time
	IsActive             bool
	StripeSubscriptionID *string
	StripeCustomerID     *string
}

// Entitled reports whether the subscription currently grants access:
// the row is active, status is "active" and the end date (if any) is in
// the future.
func (s *Subscription) Entitled(now time.Time) bool {
	if !s.IsActive || s.Status != StatusActive {
		return false
	}
	return s.EndDate == nil || s.EndDate.After(now)
}

// SubscriptionInfo is the projection of a subscription returned to API callers.
type SubscriptionInfo struct {
	PlanName  string     `json:"planName"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Info projects the subscription into its API shape.
func (s *Subscription) Info() *SubscriptionInfo {
	return &SubscriptionInfo{
		PlanName:  s.PlanName,
		Status:    string(s.Status),
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}
