package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a token fails signature verification,
// is expired, malformed, or uses an unexpected signing algorithm. Callers
// get no further detail about which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the signed token payload. Only registered claims are used:
// sub holds the user ID and jti uniquely identifies the token for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedToken bundles a signed token with the identifiers the caller needs
// to track it.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// TokenManager issues and validates HMAC-SHA256 signed JWT access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager signing with the given secret.
// Tokens expire ttl after issuance.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given subject. Every token gets a
// fresh random jti so it can be revoked independently of any other token
// issued to the same subject.
func (m *TokenManager) Issue(subject string) (*IssuedToken, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &IssuedToken{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// Validate parses and verifies a signed token, returning its claims. Any
// failure, including a token signed with a different algorithm or one
// carrying no expiry, collapses into ErrInvalidToken.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
