package apiclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/visitkit/core/apiclient"
	"github.com/fieldsales/visitkit/core/session"
)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
		"sub": "7",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func newClient(t *testing.T, srv *httptest.Server, opts ...apiclient.Option) (*apiclient.Client, *session.Store) {
	t.Helper()

	store := session.NewStore(session.NewMemory())
	client, err := apiclient.New(srv.URL, store, opts...)
	require.NoError(t, err)
	return client, store
}

func TestClient_Call(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("attaches bearer and request id headers", func(t *testing.T) {
		t.Parallel()

		var gotAuth, gotRequestID, gotContentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			gotContentType = r.Header.Get("Content-Type")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client, store := newClient(t, srv)
		require.NoError(t, store.SetToken(ctx, "tok-123"))

		require.NoError(t, client.Call(ctx, http.MethodGet, "/auth/me", nil, nil))
		assert.Equal(t, "Bearer tok-123", gotAuth)
		assert.NotEmpty(t, gotRequestID)
		assert.Equal(t, "application/json", gotContentType)
	})

	t.Run("no authorization header without token", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client, _ := newClient(t, srv)

		require.NoError(t, client.Call(ctx, http.MethodGet, "/configurations", nil, nil))
		assert.Empty(t, gotAuth)
	})

	t.Run("encodes body and decodes response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"email":"rep@example.com"}`, string(body))
			w.Write([]byte(`{"id":7,"email":"rep@example.com"}`))
		}))
		defer srv.Close()

		client, _ := newClient(t, srv)

		var out struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		}
		in := map[string]string{"email": "rep@example.com"}
		require.NoError(t, client.Call(ctx, http.MethodPost, "/users", in, &out))
		assert.Equal(t, int64(7), out.ID)
		assert.Equal(t, "rep@example.com", out.Email)
	})

	t.Run("tolerates empty success body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client, _ := newClient(t, srv)

		var out map[string]any
		require.NoError(t, client.Call(ctx, http.MethodDelete, "/shop-visits/3", nil, &out))
		assert.Nil(t, out)
	})

	t.Run("transport errors are wrapped, not classified", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // immediately, to force a connection error

		client, store := newClient(t, srv)
		require.NoError(t, store.SetToken(ctx, "tok"))

		err := client.Call(ctx, http.MethodGet, "/auth/me", nil, nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apiclient.ErrNotAuthenticated)

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)
	})
}

func TestClient_Unauthorized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	newUnauthorizedServer := func() *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Could not validate credentials"}`))
		}))
	}

	t.Run("expired token is cleared", func(t *testing.T) {
		t.Parallel()

		srv := newUnauthorizedServer()
		defer srv.Close()

		client, store := newClient(t, srv, apiclient.WithClock(func() time.Time { return now }))
		require.NoError(t, store.SetToken(ctx, signToken(t, now.Add(-time.Minute))))
		require.NoError(t, store.SetProfile(ctx, &session.UserProfile{ID: 7}))

		err := client.Call(ctx, http.MethodGet, "/auth/me", nil, nil)
		assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, tok)

		profile, err := store.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("unexpired token survives an ambiguous 401", func(t *testing.T) {
		t.Parallel()

		srv := newUnauthorizedServer()
		defer srv.Close()

		client, store := newClient(t, srv, apiclient.WithClock(func() time.Time { return now }))
		valid := signToken(t, now.Add(time.Hour))
		require.NoError(t, store.SetToken(ctx, valid))

		err := client.Call(ctx, http.MethodGet, "/auth/me", nil, nil)
		assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, valid, tok)
	})

	t.Run("undecodable token survives a 401", func(t *testing.T) {
		t.Parallel()

		srv := newUnauthorizedServer()
		defer srv.Close()

		client, store := newClient(t, srv)
		require.NoError(t, store.SetToken(ctx, "hardcoded_admin_token_1700000000000"))

		err := client.Call(ctx, http.MethodGet, "/auth/me", nil, nil)
		assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
	})

	t.Run("login endpoint never clears the store", func(t *testing.T) {
		t.Parallel()

		srv := newUnauthorizedServer()
		defer srv.Close()

		client, store := newClient(t, srv, apiclient.WithClock(func() time.Time { return now }))
		expired := signToken(t, now.Add(-time.Minute))
		require.NoError(t, store.SetToken(ctx, expired))

		err := client.Call(ctx, http.MethodPost, "/auth/login-json", map[string]string{"email": "x"}, nil)
		assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, expired, tok)
	})
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	respond := func(status int, body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
	}

	t.Run("structured 422 becomes a validation error", func(t *testing.T) {
		t.Parallel()

		srv := respond(http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","email"],"msg":"field required"},{"loc":["body","password"],"msg":"too short"}]}`)
		defer srv.Close()

		client, _ := newClient(t, srv)

		err := client.Call(ctx, http.MethodPost, "/users", map[string]string{}, nil)

		var verr *apiclient.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 2)
		assert.Equal(t, "body.email", verr.Fields[0].Location)
		assert.Equal(t, "field required", verr.Fields[0].Message)
		assert.Equal(t, "validation error: body.email: field required, body.password: too short", verr.Error())
	})

	t.Run("string 422 becomes a request error", func(t *testing.T) {
		t.Parallel()

		srv := respond(http.StatusUnprocessableEntity, `{"detail":"email already registered"}`)
		defer srv.Close()

		client, _ := newClient(t, srv)

		err := client.Call(ctx, http.MethodPost, "/users", map[string]string{}, nil)

		var rerr *apiclient.RequestError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusUnprocessableEntity, rerr.Status)
		assert.Equal(t, "email already registered", rerr.Error())
		assert.ErrorIs(t, err, apiclient.ErrRequestFailed)
	})

	t.Run("other statuses carry the server detail", func(t *testing.T) {
		t.Parallel()

		srv := respond(http.StatusInternalServerError, `{"detail":"File upload failed"}`)
		defer srv.Close()

		client, _ := newClient(t, srv)

		err := client.Call(ctx, http.MethodGet, "/files/abc", nil, nil)

		var rerr *apiclient.RequestError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusInternalServerError, rerr.Status)
		assert.Equal(t, "File upload failed", rerr.Error())
	})

	t.Run("non-json error body falls back to a status message", func(t *testing.T) {
		t.Parallel()

		srv := respond(http.StatusBadGateway, "upstream timed out")
		defer srv.Close()

		client, _ := newClient(t, srv)

		err := client.Call(ctx, http.MethodGet, "/shop-visits", nil, nil)

		var rerr *apiclient.RequestError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "request failed with status 502", rerr.Error())
	})
}

func TestClient_Upload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sends multipart form with file contents", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()

			contents, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "shop front photo", string(contents))
			assert.Equal(t, "photo.jpg", header.Filename)

			w.Write([]byte(`{"fileId":"file-1","filename":"photo.jpg","size":16}`))
		}))
		defer srv.Close()

		client, store := newClient(t, srv)
		require.NoError(t, store.SetToken(ctx, "tok"))

		var out struct {
			FileID   string `json:"fileId"`
			Filename string `json:"filename"`
			Size     int64  `json:"size"`
		}
		err := client.Upload(ctx, "/files/upload", "file", "photo.jpg", strings.NewReader("shop front photo"), &out)
		require.NoError(t, err)
		assert.Equal(t, "file-1", out.FileID)
		assert.Equal(t, int64(16), out.Size)
	})
}
