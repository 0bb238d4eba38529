package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fieldsales/visitkit/core/apiclient"
	"github.com/fieldsales/visitkit/core/logger"
	"github.com/fieldsales/visitkit/core/refresher"
	"github.com/fieldsales/visitkit/core/session"
	"github.com/fieldsales/visitkit/pkg/broadcast"
)

// Service owns the credential lifecycle against the reporting API.
type Service struct {
	client      *apiclient.Client
	store       *session.Store
	scheduler   *refresher.Scheduler
	broadcaster *broadcast.MemoryBroadcaster[session.UserProfile]
	cfg         Config
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger configures structured logging.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithBroadcaster replaces the profile-update broadcaster.
func WithBroadcaster(b *broadcast.MemoryBroadcaster[session.UserProfile]) Option {
	return func(s *Service) {
		if b != nil {
			s.broadcaster = b
		}
	}
}

// WithClock injects the time source used for the bootstrap dummy token.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates the auth service bound to the client's session store.
func New(client *apiclient.Client, scheduler *refresher.Scheduler, cfg Config, opts ...Option) *Service {
	s := &Service{
		client:      client,
		store:       client.Store(),
		scheduler:   scheduler,
		broadcaster: broadcast.NewMemoryBroadcaster[session.UserProfile](broadcast.DefaultBufferSize),
		cfg:         cfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// meResponse is the backend's profile shape.
type meResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

func (r meResponse) profile() *session.UserProfile {
	name := r.FullName
	if name == "" {
		name = r.Email
	}
	return &session.UserProfile{
		ID:        r.ID,
		Email:     r.Email,
		Name:      name,
		FullName:  r.FullName,
		Role:      r.Role,
		AvatarURL: r.AvatarURL,
	}
}

// Login authenticates the visitor and establishes a session: token stored,
// profile cached, refresh scheduler running. On any failure after the token
// write the partial session is rolled back.
func (s *Service) Login(ctx context.Context, email, password string) (*session.UserProfile, error) {
	if s.isBootstrapLogin(email, password) {
		return s.loginBootstrap(ctx)
	}

	// A real login always leaves bootstrap mode.
	if err := s.store.SetBootstrapAdmin(ctx, false); err != nil {
		return nil, err
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := s.client.Call(ctx, http.MethodPost, "/auth/login-json", in, &out); err != nil {
		if errors.Is(err, apiclient.ErrNotAuthenticated) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	if err := s.store.SetToken(ctx, out.AccessToken); err != nil {
		return nil, err
	}

	// Let the token write settle before the dependent profile fetch;
	// shared stores (redis) may serve reads from a different connection.
	if err := s.settle(ctx); err != nil {
		return nil, err
	}

	profile, err := s.FetchProfile(ctx)
	if err != nil {
		// Roll back the half-established session.
		if cerr := s.store.ClearCredentials(ctx); cerr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back partial login",
				logger.Component("auth"), logger.Error(cerr))
		}
		return nil, fmt.Errorf("fetch profile after login: %w", err)
	}
	if err := s.store.SetProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.scheduler.Start(ctx)

	s.logger.InfoContext(ctx, "login succeeded",
		logger.Component("auth"), logger.UserID(profile.ID))
	return profile, nil
}

// Logout stops the refresh scheduler and clears the whole session.
// It always clears, regardless of any verification still in flight.
func (s *Service) Logout(ctx context.Context) error {
	s.scheduler.Stop()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "logged out", logger.Component("auth"))
	return nil
}

// Me returns the current user's profile, refreshing the cache.
// Bootstrap-admin sessions are served from the cache without touching the
// network: the dummy token would only earn a 401.
func (s *Service) Me(ctx context.Context) (*session.UserProfile, error) {
	if admin, err := s.store.BootstrapAdmin(ctx); err == nil && admin {
		profile, err := s.store.Profile(ctx)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrNotLoggedIn
		}
		return profile, nil
	}

	profile, err := s.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// FetchProfile fetches the authoritative profile without caching it.
// It backs the guard's background verification, which applies its own
// race-checked cache write.
func (s *Service) FetchProfile(ctx context.Context) (*session.UserProfile, error) {
	var out meResponse
	if err := s.client.Call(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.profile(), nil
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// UpdateProfile applies the update to the current user, re-caches the
// result, and broadcasts it so shells can hot-swap displayed user state.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*session.UserProfile, error) {
	current, err := s.store.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current, err = s.Me(ctx)
		if err != nil {
			return nil, err
		}
	}

	var out meResponse
	endpoint := "/users/" + strconv.FormatInt(current.ID, 10)
	if err := s.client.Call(ctx, http.MethodPut, endpoint, update, &out); err != nil {
		return nil, err
	}

	profile := out.profile()
	if err := s.store.SetProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(broadcast.Message[session.UserProfile]{Data: *profile})
	return profile, nil
}

// Register creates a user account and logs it in.
func (s *Service) Register(ctx context.Context, email, password, fullName, role string) (*session.UserProfile, error) {
	if role == "" {
		role = "sales_rep"
	}

	in := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
		"role":      role,
	}
	if err := s.client.Call(ctx, http.MethodPost, "/users", in, nil); err != nil {
		return nil, err
	}

	return s.Login(ctx, email, password)
}

// Subscribe delivers profile updates until ctx is canceled.
func (s *Service) Subscribe(ctx context.Context) *broadcast.Subscriber[session.UserProfile] {
	return s.broadcaster.Subscribe(ctx)
}

func (s *Service) isBootstrapLogin(email, password string) bool {
	return s.cfg.bootstrapEnabled() &&
		strings.EqualFold(strings.TrimSpace(email), s.cfg.BootstrapAdminEmail) &&
		password == s.cfg.BootstrapAdminPassword
}

// loginBootstrap writes a synthetic offline admin session. The dummy token
// is opaque on purpose: the inspector reports its expiration as unknown, so
// it can never be confirmed dead and never triggers a forced logout.
func (s *Service) loginBootstrap(ctx context.Context) (*session.UserProfile, error) {
	profile := &session.UserProfile{
		ID:       0,
		Email:    s.cfg.BootstrapAdminEmail,
		Name:     "Admin User",
		FullName: "Admin User",
		Role:     "admin",
	}

	if err := s.store.SetProfile(ctx, profile); err != nil {
		return nil, err
	}
	token := "hardcoded_admin_token_" + strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.store.SetToken(ctx, token); err != nil {
		return nil, err
	}
	if err := s.store.SetBootstrapAdmin(ctx, true); err != nil {
		return nil, err
	}

	s.logger.WarnContext(ctx, "bootstrap admin session established",
		logger.Component("auth"))
	return profile, nil
}

// settle waits the configured delay, honoring cancellation.
func (s *Service) settle(ctx context.Context) error {
	if s.cfg.SettleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.cfg.SettleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
