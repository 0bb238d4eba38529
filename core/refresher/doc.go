// Package refresher keeps the stored bearer token fresh with a background
// renewal loop.
//
// A Scheduler is started after login and stopped on logout. It checks the
// stored token on a fixed cadence (default every minute) and renews it when
// it is due to expire within the renewal buffer (default five minutes).
// At most one loop runs per scheduler; starting an already-running scheduler
// restarts it rather than stacking a second loop.
//
// Renewal outcomes are deliberately conservative:
//
//   - a token that is already provably expired is not sent to the server at
//     all - a known-dead token cannot be refreshed;
//   - a 401 from the refresh endpoint is authoritative and clears the
//     stored credentials;
//   - any other failure (5xx, network) mutates nothing, because it may be
//     transient.
//
// Renew reports success as a bool and never returns an error; transport
// problems are logged, not surfaced.
//
// Usage:
//
//	sched := refresher.New(client,
//		refresher.WithCheckInterval(time.Minute),
//		refresher.WithRenewalBuffer(5*time.Minute),
//		refresher.WithLogger(log),
//	)
//
//	sched.Start(ctx) // after login
//	defer sched.Stop()
package refresher
