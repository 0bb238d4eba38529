package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/visitkit/core/session"
)

// failingKV simulates a broken storage backend.
type failingKV struct {
	err error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Delete(context.Context, string) error              { return f.err }

func newStore(t *testing.T) (*session.Store, *session.Memory) {
	t.Helper()

	kv := session.NewMemory()
	return session.NewStore(kv), kv
}

func TestStore_Token(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty when absent", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, tok)
	})

	t.Run("round trips", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.NoError(t, store.SetToken(ctx, "abc.def.ghi"))

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", tok)
	})

	t.Run("set fully replaces previous value", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.NoError(t, store.SetToken(ctx, "first"))
		require.NoError(t, store.SetToken(ctx, "second"))

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", tok)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.SetToken(ctx, "")
		assert.ErrorIs(t, err, session.ErrEmptyToken)
	})

	t.Run("delete removes token", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.NoError(t, store.SetToken(ctx, "abc"))
		require.NoError(t, store.DeleteToken(ctx))

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, tok)
	})

	t.Run("wraps backend failures", func(t *testing.T) {
		t.Parallel()

		backendErr := errors.New("connection refused")
		store := session.NewStore(failingKV{err: backendErr})

		_, err := store.Token(ctx)
		assert.ErrorIs(t, err, session.ErrStoreUnavailable)
		assert.ErrorIs(t, err, backendErr)
	})
}

func TestStore_Profile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil when absent", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		profile, err := store.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("round trips", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		want := &session.UserProfile{
			ID:    7,
			Email: "rep@example.com",
			Name:  "Field Rep",
			Role:  "sales_rep",
		}

		require.NoError(t, store.SetProfile(ctx, want))

		got, err := store.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unparsable stored profile reads as absent", func(t *testing.T) {
		t.Parallel()

		store, kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "user", "{not json"))

		profile, err := store.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("rejects nil profile", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		err := store.SetProfile(ctx, nil)
		assert.ErrorIs(t, err, session.ErrNilProfile)
	})
}

func TestStore_BootstrapAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("false by default", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		on, err := store.BootstrapAdmin(ctx)
		require.NoError(t, err)
		assert.False(t, on)
	})

	t.Run("set and unset", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.NoError(t, store.SetBootstrapAdmin(ctx, true))
		on, err := store.BootstrapAdmin(ctx)
		require.NoError(t, err)
		assert.True(t, on)

		require.NoError(t, store.SetBootstrapAdmin(ctx, false))
		on, err = store.BootstrapAdmin(ctx)
		require.NoError(t, err)
		assert.False(t, on)
	})
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("clear credentials keeps bootstrap flag", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.SetToken(ctx, "abc"))
		require.NoError(t, store.SetProfile(ctx, &session.UserProfile{ID: 1}))
		require.NoError(t, store.SetBootstrapAdmin(ctx, true))

		require.NoError(t, store.ClearCredentials(ctx))

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, tok)

		profile, err := store.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, profile)

		on, err := store.BootstrapAdmin(ctx)
		require.NoError(t, err)
		assert.True(t, on)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		require.NoError(t, store.SetToken(ctx, "abc"))
		require.NoError(t, store.SetProfile(ctx, &session.UserProfile{ID: 1}))
		require.NoError(t, store.SetBootstrapAdmin(ctx, true))

		require.NoError(t, store.Clear(ctx))

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, tok)

		profile, err := store.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, profile)

		on, err := store.BootstrapAdmin(ctx)
		require.NoError(t, err)
		assert.False(t, on)
	})
}

func TestUserProfile_DisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Field Rep", session.UserProfile{Name: "Field Rep", Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "Full Name", session.UserProfile{FullName: "Full Name", Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "a@b.c", session.UserProfile{Email: "a@b.c"}.DisplayName())
}
