// Package guard makes the page-level authorization decision: render the
// protected content or redirect to login.
//
// The decision is optimistic-then-verify. Whenever a token is present the
// guard resolves Authenticated immediately, before any network round trip,
// and reconciles against the server in a detached background task. The
// asymmetry is the component's central contract: allow fast, deny only on
// proof. A network blip, a slow server, or an ambiguous 401 never downgrade
// the session; only a token that is provably expired and unrefreshable, or
// the total absence of credentials, does.
//
// Evaluate runs at most once per guard. The immediate state is available
// from Evaluation.State before the background task settles; Done and Await
// expose the reconciliation for shells and tests that want to observe it.
// A background task re-checks token presence before every store write, so a
// concurrent logout always wins and is never resurrected by a stale
// verification result.
//
// Usage:
//
//	g := guard.New(store, authService, scheduler)
//
//	eval := g.Evaluate(ctx)
//	switch eval.State() {
//	case guard.StateAuthenticated:
//		// render protected content; eval.Done() signals reconciliation
//	case guard.StateUnauthenticated:
//		// redirect to login
//	}
package guard
