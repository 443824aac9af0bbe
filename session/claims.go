package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/taxfree-rdc/taxfree-go/internal/errors"
)

// TokenClaims is the subset of access-token claims the client reads. Claims
// are decoded without signature verification: the server is the only party
// that trusts them, the client uses them for display and expiry hints only.
type TokenClaims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// PeekClaims decodes the access token's claims without verifying it.
func PeekClaims(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, apperrors.ErrEmptyToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// ExpiresWithin reports whether the stored access token expires inside the
// given window. Tokens without an exp claim, or no token at all, count as
// expiring so callers err on the side of refreshing.
func (s *Store) ExpiresWithin(window time.Duration) bool {
	claims, err := PeekClaims(s.AccessToken())
	if err != nil || claims.ExpiresAt.IsZero() {
		return true
	}
	return time.Until(claims.ExpiresAt) < window
}
