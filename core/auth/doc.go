// Package auth orchestrates the credential lifecycle: login, logout,
// profile fetches, and profile updates.
//
// Login exchanges credentials for a bearer token, caches the fresh profile,
// and starts the background refresh scheduler. Logout is the mirror image
// and the sole cancellation trigger for the scheduler: it always clears the
// session regardless of any verification still in flight.
//
// The service also implements the offline bootstrap-admin bypass: when the
// configured bootstrap credentials are presented, a synthetic admin session
// is written without touching the network. That identity exists to reach the
// admin screens of a freshly deployed instance and is skipped by the token
// refresher; real API calls made with its dummy token will fail until a real
// admin account exists.
//
// Profile changes are fanned out over a broadcaster so shell components can
// hot-swap displayed user state without a refetch.
package auth
