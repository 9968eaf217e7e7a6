// Package jwt issues and validates the stateless HS256 session tokens.
//
// Tokens carry the user id as subject plus email claims, are bound to the
// configured issuer and audience, and expire after the configured TTL.
// There is no server-side token store: validity is signature + claims only.
package jwt

import "time"

// Maker creates and inspects session tokens.
type Maker interface {
	// GenerateToken issues a signed token for the user id and email.
	GenerateToken(userID int, email string) (string, error)
	// ValidateToken reports whether the token is signed by us, unexpired
	// and bound to our issuer/audience. It never returns an error.
	ValidateToken(tokenStr string) bool
	// ExtractUserID validates the token and returns the subject user id.
	ExtractUserID(tokenStr string) (int, error)
	// GenerateRefreshToken returns an opaque random token. Nothing consumes
	// it yet; the refresh flow is a documented no-op.
	GenerateRefreshToken() (string, error)
}

// MakerImpl implements Maker with a symmetric secret.
type MakerImpl struct {
	secretKey string
	issuer    string
	audience  string
	tokenTTL  time.Duration
}

// NewMaker builds a MakerImpl from the configured secret, issuer, audience
// and token lifetime.
func NewMaker(secretKey, issuer, audience string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  ttl,
	}
}
