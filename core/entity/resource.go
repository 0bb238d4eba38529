package entity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fieldsales/visitkit/core/apiclient"
)

// DefaultListLimit caps unqualified listings, matching the backend's
// pagination default.
const DefaultListLimit = 100

// Resource is a typed client for one entity collection. T is the entity
// shape as the backend returns it.
type Resource[T any] struct {
	client   *apiclient.Client
	endpoint string
}

// NewResource binds an entity collection endpoint to T. The endpoint is the
// collection path, e.g. "/customers".
func NewResource[T any](client *apiclient.Client, endpoint string) (*Resource[T], error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return &Resource[T]{client: client, endpoint: endpoint}, nil
}

// ListOption adjusts the query of a List call.
type ListOption func(url.Values)

// WithSkip sets the pagination offset.
func WithSkip(n int) ListOption {
	return func(q url.Values) {
		q.Set("skip", strconv.Itoa(n))
	}
}

// WithLimit overrides the default page size.
func WithLimit(n int) ListOption {
	return func(q url.Values) {
		q.Set("limit", strconv.Itoa(n))
	}
}

// WithFilter adds an equality filter on a backend field.
func WithFilter(field string, value any) ListOption {
	return func(q url.Values) {
		q.Set(field, fmt.Sprint(value))
	}
}

// List fetches a page of entities. Without options it asks for the first
// DefaultListLimit records; filters and pagination are applied via options.
func (r *Resource[T]) List(ctx context.Context, opts ...ListOption) ([]T, error) {
	q := url.Values{}
	for _, opt := range opts {
		opt(q)
	}
	if !q.Has("skip") {
		q.Set("skip", "0")
	}
	if !q.Has("limit") {
		q.Set("limit", strconv.Itoa(DefaultListLimit))
	}

	var out []T
	if err := r.client.Call(ctx, http.MethodGet, r.endpoint+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Filter fetches entities matching the given field values verbatim, without
// injecting pagination defaults. Nil values are skipped.
func (r *Resource[T]) Filter(ctx context.Context, filters map[string]any) ([]T, error) {
	q := url.Values{}
	for field, value := range filters {
		if value == nil {
			continue
		}
		q.Set(field, fmt.Sprint(value))
	}

	endpoint := r.endpoint
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var out []T
	if err := r.client.Call(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single entity by id.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	path, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}

	var out T
	if err := r.client.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new entity and returns the stored record.
func (r *Resource[T]) Create(ctx context.Context, in any) (*T, error) {
	var out T
	if err := r.client.Call(ctx, http.MethodPost, r.endpoint, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the entity's mutable fields and returns the stored record.
func (r *Resource[T]) Update(ctx context.Context, id string, in any) (*T, error) {
	path, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}

	var out T
	if err := r.client.Call(ctx, http.MethodPut, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the entity by id.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	path, err := r.itemPath(id)
	if err != nil {
		return err
	}
	return r.client.Call(ctx, http.MethodDelete, path, nil, nil)
}

func (r *Resource[T]) itemPath(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrEmptyID
	}
	return r.endpoint + "/" + url.PathEscape(id), nil
}
