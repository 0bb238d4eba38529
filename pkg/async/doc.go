// Package async runs fire-and-forget background work whose completion can
// still be observed.
//
// The SDK's session lifecycle is built around optimistic-then-verify flows:
// a caller gets an immediate answer while a detached task reconciles state
// against the server. Future is the handle to such a task - callers that do
// not care simply drop it, tests and shutdown paths await it.
//
// Usage:
//
//	future := async.Run(ctx, func(ctx context.Context) error {
//		return verifySession(ctx)
//	})
//
//	// ... return to the caller immediately ...
//
//	if err := future.AwaitWithTimeout(5 * time.Second); err != nil {
//		log.Warn("verification did not settle", logger.Error(err))
//	}
package async
