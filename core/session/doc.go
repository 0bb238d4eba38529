// Package session owns the client-side session state: the bearer token, the
// cached user profile, and the bootstrap-admin flag.
//
// The state lives behind a small key-value interface so the lifecycle logic
// is storage-agnostic: the in-memory implementation serves tests and
// short-lived processes, while integration/storage/redis persists sessions
// across restarts for long-running agents.
//
// The store is the single source of truth for authentication state. A token
// present in the store means the visitor is provisionally authenticated;
// absence always means unauthenticated. Presence never implies the token is
// still valid on the server - that is established lazily by the guard and
// the refresher.
//
// Each write fully replaces its key. Readers re-fetch current values instead
// of caching them across blocking calls, which keeps concurrent logout
// semantics simple: last write wins, and a cleared store stays cleared.
//
// Usage:
//
//	store := session.NewStore(session.NewMemory())
//
//	if err := store.SetToken(ctx, accessToken); err != nil {
//		return err
//	}
//
//	tok, err := store.Token(ctx)
//	if err != nil {
//		return err
//	}
//	if tok == "" {
//		// not authenticated
//	}
//
// A cached profile that fails to unmarshal reads as "no cached profile"
// rather than an error; the cache is best-effort and never authoritative.
package session
