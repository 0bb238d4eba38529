package session

import "errors"

var (
	// ErrStoreUnavailable wraps backend failures (e.g. redis connectivity).
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrEmptyToken is returned when storing an empty bearer token.
	ErrEmptyToken = errors.New("empty bearer token")
	// ErrNilProfile is returned when storing a nil profile.
	ErrNilProfile = errors.New("nil user profile")
	// ErrProfileEncoding is returned when a profile cannot be serialized.
	ErrProfileEncoding = errors.New("failed to encode user profile")
)
