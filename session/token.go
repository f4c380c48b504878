package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the expiry claim from an access token without
// verifying its signature. The client never holds the signing key; the
// server remains the authority on validity. The result only drives
// display (whoami, dashboard) and countdown seeding.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("reading expiry claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return exp.Time, nil
}

// TokenTTL returns the remaining lifetime of an access token, clamped
// at zero.
func TokenTTL(token string, now time.Time) (time.Duration, error) {
	exp, err := TokenExpiry(token)
	if err != nil {
		return 0, err
	}
	ttl := exp.Sub(now)
	if ttl < 0 {
		ttl = 0
	}
	return ttl, nil
}
