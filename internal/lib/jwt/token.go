package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims extends the registered claims with the user's email. Name
// repeats the email, matching what desktop clients already expect.
type CustomClaims struct {
	Email                string `json:"email"`
	Name                 string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 token with the user id as subject.
func (m *MakerImpl) GenerateToken(userID int, email string) (string, error) {
	const op = "jwt.GenerateToken"
	now := time.Now()
	claims := CustomClaims{
		Email: email,
		Name:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// parse verifies signature, method, issuer, audience and expiry with zero
// clock-skew tolerance.
func (m *MakerImpl) parse(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.parse"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

// ValidateToken reports token validity; all failure modes collapse to false.
func (m *MakerImpl) ValidateToken(tokenStr string) bool {
	_, err := m.parse(tokenStr)
	return err == nil
}

// ExtractUserID validates the token and parses its subject claim as the
// user id.
func (m *MakerImpl) ExtractUserID(tokenStr string) (int, error) {
	const op = "jwt.ExtractUserID"
	claims, err := m.parse(tokenStr)
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("%s: non-numeric subject claim: %w", op, err)
	}
	return id, nil
}

// GenerateRefreshToken returns 32 random bytes, base64-encoded.
func (m *MakerImpl) GenerateRefreshToken() (string, error) {
	const op = "jwt.GenerateRefreshToken"
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
