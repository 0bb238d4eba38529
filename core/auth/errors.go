package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the login endpoint rejects the
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingAccessToken is returned when a login response carries no token.
	ErrMissingAccessToken = errors.New("login response carried no access token")
	// ErrNotLoggedIn is returned when an operation requires a session.
	ErrNotLoggedIn = errors.New("not logged in")
)
