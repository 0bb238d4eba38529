package refresher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fieldsales/visitkit/core/apiclient"
	"github.com/fieldsales/visitkit/core/logger"
	"github.com/fieldsales/visitkit/core/session"
	"github.com/fieldsales/visitkit/core/token"
)

const (
	// DefaultCheckInterval is how often the loop re-inspects the token.
	DefaultCheckInterval = time.Minute
	// DefaultRenewalBuffer is how long before expiry a renewal is attempted.
	DefaultRenewalBuffer = 5 * time.Minute

	refreshEndpoint = "/auth/refresh"
)

// Scheduler renews the stored bearer token before it expires.
// Construct once at application scope; it enforces a single active loop.
type Scheduler struct {
	client   *apiclient.Client
	store    *session.Store
	interval time.Duration
	buffer   time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler bound to the client's session store.
func New(client *apiclient.Client, opts ...Option) *Scheduler {
	s := &Scheduler{
		client:   client,
		store:    client.Store(),
		interval: DefaultCheckInterval,
		buffer:   DefaultRenewalBuffer,
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the renewal loop. If a loop is already running it is
// canceled first, so two consecutive starts never produce duplicate renewal
// attempts. When no token is stored the call is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	tok, err := s.store.Token(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "cannot read token, refresh loop not started",
			logger.Component("refresher"), logger.Error(err))
		return
	}
	if tok == "" {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	immediate := token.ExpiringWithin(tok, s.buffer, s.now())

	go s.run(runCtx, done, immediate)
}

// Stop cancels the renewal loop and waits for it to exit.
// Safe to call when already stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// IsRunning reports whether the renewal loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}, immediate bool) {
	defer close(done)

	if immediate {
		s.Renew(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Re-read every tick: the token may have been replaced by a
			// renewal or cleared by a concurrent logout.
			tok, err := s.store.Token(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "token read failed, will retry next tick",
					logger.Component("refresher"), logger.Error(err))
				continue
			}
			if tok == "" {
				return
			}
			if token.ExpiringWithin(tok, s.buffer, s.now()) {
				s.Renew(ctx)
			}
		}
	}
}

// Renew attempts a single token renewal and reports success. It never
// returns an error: a known-dead token is rejected without a network call,
// a 401 clears the stored credentials, and every other failure leaves the
// store untouched.
func (s *Scheduler) Renew(ctx context.Context) bool {
	if admin, err := s.store.BootstrapAdmin(ctx); err == nil && admin {
		// The offline bootstrap identity has no backend token to renew.
		return false
	}

	tok, err := s.store.Token(ctx)
	if err != nil || tok == "" {
		return false
	}

	if token.IsExpired(tok, s.now()) {
		s.logger.WarnContext(ctx, "token already expired, skipping renewal",
			logger.Component("refresher"))
		return false
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	err = s.client.Call(ctx, http.MethodPost, refreshEndpoint, nil, &out)
	switch {
	case err == nil:
		if out.AccessToken == "" {
			s.logger.WarnContext(ctx, "refresh response carried no token",
				logger.Component("refresher"))
			return false
		}
		if err := s.store.SetToken(ctx, out.AccessToken); err != nil {
			s.logger.ErrorContext(ctx, "failed to store renewed token",
				logger.Component("refresher"), logger.Error(err))
			return false
		}
		s.logger.InfoContext(ctx, "token renewed", logger.Component("refresher"))
		return true

	case errors.Is(err, apiclient.ErrNotAuthenticated):
		// Authoritative rejection: the token is dead, clear it.
		if err := s.store.ClearCredentials(ctx); err != nil {
			s.logger.ErrorContext(ctx, "failed to clear rejected credentials",
				logger.Component("refresher"), logger.Error(err))
		}
		return false

	default:
		// Possibly transient; keep the session and try again next tick.
		s.logger.WarnContext(ctx, "token renewal failed",
			logger.Component("refresher"), logger.Error(err))
		return false
	}
}
