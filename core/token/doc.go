// Package token inspects bearer token expiration without verifying signatures.
//
// The SDK never validates tokens cryptographically; that is the backend's job.
// It only needs to answer two questions about the token it already holds:
// "is this token certainly dead?" and "should we proactively renew it?".
// The two checks treat an undecodable token differently on purpose:
//
//   - IsExpired returns false for tokens it cannot decode. A decode failure
//     must never log a user out.
//   - ExpiringWithin returns true for tokens it cannot decode. An opaque
//     token still deserves a defensive renewal attempt.
//
// Both functions take the current time as an argument so callers control
// the clock.
//
// Usage:
//
//	exp, ok := token.DecodeExpiration(raw)
//	if ok && token.IsExpired(raw, time.Now()) {
//		// the token is provably dead, do not bother refreshing it
//	}
//	if token.ExpiringWithin(raw, 5*time.Minute, time.Now()) {
//		// renew soon
//	}
package token
