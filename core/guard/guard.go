package guard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fieldsales/visitkit/core/apiclient"
	"github.com/fieldsales/visitkit/core/logger"
	"github.com/fieldsales/visitkit/core/session"
	"github.com/fieldsales/visitkit/core/token"
	"github.com/fieldsales/visitkit/pkg/async"
)

// State is the guard's authorization decision.
type State int

const (
	// StateUnknown means the evaluation has not resolved yet.
	StateUnknown State = iota
	// StateAuthenticated renders the protected content.
	StateAuthenticated
	// StateUnauthenticated redirects to login.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ProfileFetcher fetches the authoritative user profile from the server.
// Implementations classify failures through the apiclient error taxonomy.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*session.UserProfile, error)
}

// Renewer attempts a token renewal and reports success.
type Renewer interface {
	Renew(ctx context.Context) bool
}

// Guard decides whether the current visitor may see protected content.
// One guard per mount; Evaluate is idempotent against re-invocation.
type Guard struct {
	store   *session.Store
	fetcher ProfileFetcher
	renewer Renewer
	now     func() time.Time
	logger  *slog.Logger

	once sync.Once
	eval *Evaluation
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock injects the time source used for expiration checks.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger configures structured logging for background verification.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.logger = log
		}
	}
}

// New creates a guard over the given store, profile fetcher, and renewer.
func New(store *session.Store, fetcher ProfileFetcher, renewer Renewer, opts ...Option) *Guard {
	g := &Guard{
		store:   store,
		fetcher: fetcher,
		renewer: renewer,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Evaluate resolves the authorization decision. The returned Evaluation's
// State is already settled optimistically; background verification may
// later downgrade it, observable through Done or Await. Repeated calls
// return the same Evaluation.
func (g *Guard) Evaluate(ctx context.Context) *Evaluation {
	g.once.Do(func() {
		g.eval = g.evaluate(ctx)
	})
	return g.eval
}

func (g *Guard) evaluate(ctx context.Context) *Evaluation {
	tok, err := g.store.Token(ctx)
	if err != nil {
		// Without a readable store there are no credentials to present;
		// the login flow re-establishes both.
		g.logger.ErrorContext(ctx, "session store unreadable",
			logger.Component("guard"), logger.Error(err))
		return newSettledEvaluation(StateUnauthenticated)
	}
	if tok == "" {
		return newSettledEvaluation(StateUnauthenticated)
	}

	// A token is enough to unblock the UI; cached-profile presence only
	// decides whether the background task verifies or backfills.
	eval := newEvaluation(StateAuthenticated)

	// The verification must survive the mount that spawned it: logout is
	// the only thing that invalidates it, and that is handled by re-checking
	// the store before every write.
	bg := context.WithoutCancel(ctx)
	eval.future = async.Run(bg, func(ctx context.Context) error {
		g.reconcile(ctx, eval)
		return nil
	})

	return eval
}

// reconcile runs the background verification: fetch the authoritative
// profile, refresh the cache on success, and downgrade the session only on
// a proven expired-and-unrefreshable token.
func (g *Guard) reconcile(ctx context.Context, eval *Evaluation) {
	fresh, err := g.fetcher.FetchProfile(ctx)

	switch {
	case err == nil:
		// A concurrent logout wins over the in-flight verification.
		tok, terr := g.store.Token(ctx)
		if terr != nil || tok == "" {
			eval.downgrade()
			return
		}
		if serr := g.store.SetProfile(ctx, fresh); serr != nil {
			g.logger.WarnContext(ctx, "failed to cache fresh profile",
				logger.Component("guard"), logger.Error(serr))
		}

	case errors.Is(err, apiclient.ErrNotAuthenticated):
		g.reconcileRejection(ctx, eval)

	default:
		// Transport or server trouble is treated as inconclusive: the
		// cached session stays live and nothing is mutated.
		g.logger.WarnContext(ctx, "background verification inconclusive, keeping session",
			logger.Component("guard"), logger.Error(err))
	}
}

// reconcileRejection handles a 401 from the profile fetch: try a renewal,
// and log the visitor out only when the still-current token is provably
// expired. An unprovable rejection is discarded as inconclusive.
func (g *Guard) reconcileRejection(ctx context.Context, eval *Evaluation) {
	tok, err := g.store.Token(ctx)
	if err != nil || tok == "" {
		eval.downgrade()
		return
	}

	if g.renewer.Renew(ctx) {
		g.logger.InfoContext(ctx, "token renewed during verification",
			logger.Component("guard"))
		return
	}

	// The renewal may itself have cleared a rejected token; re-read.
	tok, err = g.store.Token(ctx)
	if err == nil && tok != "" && !token.IsExpired(tok, g.now()) {
		g.logger.WarnContext(ctx, "verification failed but token not expired, keeping session",
			logger.Component("guard"))
		return
	}

	if err := g.store.ClearCredentials(ctx); err != nil {
		g.logger.ErrorContext(ctx, "failed to clear dead credentials",
			logger.Component("guard"), logger.Error(err))
	}
	eval.downgrade()
}

// Evaluation is the result of a guard run: an immediately resolved state
// plus the handle of the background reconciliation task.
type Evaluation struct {
	mu     sync.RWMutex
	state  State
	future *async.Future

	settled chan struct{}
}

func newEvaluation(state State) *Evaluation {
	return &Evaluation{state: state}
}

func newSettledEvaluation(state State) *Evaluation {
	settled := make(chan struct{})
	close(settled)
	return &Evaluation{state: state, settled: settled}
}

// State returns the current decision. It is resolved before Evaluate
// returns and may flip to StateUnauthenticated when the background task
// proves the session dead.
func (e *Evaluation) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state
}

// Done returns a channel closed once there is nothing left in flight.
func (e *Evaluation) Done() <-chan struct{} {
	if e.future != nil {
		return e.future.Done()
	}
	return e.settled
}

// Await blocks until the background reconciliation settles or the context
// is canceled, then returns the final state.
func (e *Evaluation) Await(ctx context.Context) State {
	select {
	case <-e.Done():
	case <-ctx.Done():
	}
	return e.State()
}

func (e *Evaluation) downgrade() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = StateUnauthenticated
}
