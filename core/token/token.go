package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiration policy lives in the callers, not in the JWT library, so the
// parser is only used for its unverified decode path.
var parser = jwt.NewParser()

// DecodeExpiration extracts the expiration time from a three-segment bearer
// token without verifying its signature. Returns ok=false for anything it
// cannot decode: wrong segment count, invalid base64url payload, non-JSON
// claims, or a missing/non-numeric exp field.
func DecodeExpiration(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// IsExpired reports whether the token is certainly expired at now.
// Tokens with unknown expiration are treated as not expired, so a decode
// failure can never trigger a logout.
func IsExpired(raw string, now time.Time) bool {
	exp, ok := DecodeExpiration(raw)
	if !ok {
		return false
	}
	return !now.Before(exp)
}

// ExpiringWithin reports whether the token expires less than buffer from now.
// Tokens with unknown expiration are treated as expiring, so opaque tokens
// still get a proactive renewal attempt.
func ExpiringWithin(raw string, buffer time.Duration, now time.Time) bool {
	exp, ok := DecodeExpiration(raw)
	if !ok {
		return true
	}
	return exp.Sub(now) < buffer
}
