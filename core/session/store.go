package session

import (
	"context"
	"encoding/json"
	"errors"
)

// Persistence keys. They mirror the names used by the reporting app's web
// shell so a shared backend (e.g. redis) can serve both.
const (
	keyToken          = "access_token"
	keyProfile        = "user"
	keyBootstrapAdmin = "is_hardcoded_admin"
)

// KV is the minimal durable map the session store is built on.
// Implementations must be safe for concurrent use. Get reports presence
// explicitly so an empty stored value is distinguishable from absence.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store provides typed access to the three session keys on top of a KV.
// It is the sole writer of session state; callers go through the auth
// service, refresher, or guard rather than mutating keys directly.
type Store struct {
	kv KV
}

// NewStore wraps the given KV backend.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Token returns the stored bearer token, or "" when absent.
func (s *Store) Token(ctx context.Context) (string, error) {
	value, ok, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

// SetToken overwrites the stored bearer token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.kv.Set(ctx, keyToken, token); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteToken removes the stored bearer token.
func (s *Store) DeleteToken(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyToken); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Profile returns the cached user profile, or nil when absent.
// A value that fails to unmarshal counts as absent: the cache is
// best-effort and a corrupt entry must not break authentication.
func (s *Store) Profile(ctx context.Context) (*UserProfile, error) {
	value, ok, err := s.kv.Get(ctx, keyProfile)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, nil
	}

	var profile UserProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		return nil, nil
	}
	return &profile, nil
}

// SetProfile overwrites the cached user profile.
func (s *Store) SetProfile(ctx context.Context, profile *UserProfile) error {
	if profile == nil {
		return ErrNilProfile
	}

	value, err := json.Marshal(profile)
	if err != nil {
		return errors.Join(ErrProfileEncoding, err)
	}
	if err := s.kv.Set(ctx, keyProfile, string(value)); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteProfile removes the cached user profile.
func (s *Store) DeleteProfile(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyProfile); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// BootstrapAdmin reports whether the current session belongs to the
// offline bootstrap admin identity, which bypasses the HTTP API.
func (s *Store) BootstrapAdmin(ctx context.Context) (bool, error) {
	value, ok, err := s.kv.Get(ctx, keyBootstrapAdmin)
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return ok && value == "true", nil
}

// SetBootstrapAdmin marks or unmarks the session as the bootstrap admin.
func (s *Store) SetBootstrapAdmin(ctx context.Context, on bool) error {
	if !on {
		if err := s.kv.Delete(ctx, keyBootstrapAdmin); err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		return nil
	}
	if err := s.kv.Set(ctx, keyBootstrapAdmin, "true"); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// ClearCredentials removes the token and cached profile but leaves the
// bootstrap flag alone. Used when an expired token is confirmed dead.
func (s *Store) ClearCredentials(ctx context.Context) error {
	if err := s.DeleteToken(ctx); err != nil {
		return err
	}
	return s.DeleteProfile(ctx)
}

// Clear removes all session state. Used on logout.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.ClearCredentials(ctx); err != nil {
		return err
	}
	return s.SetBootstrapAdmin(ctx, false)
}
