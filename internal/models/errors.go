package models

import "errors"

// Sentinel errors crossing the storage/service boundary. Repositories map
// driver conditions (sql.ErrNoRows, unique violations) onto these so the
// services never inspect SQLSTATE codes themselves.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrKeyNotFound          = errors.New("activation key not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrKeyExists            = errors.New("activation key already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotImplemented       = errors.New("not implemented")
)
