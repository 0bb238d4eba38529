package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// KV adapts a Redis client to the session.KV interface. Values are stored
// without expiration; session lifetime is governed by the token itself.
type KV struct {
	client *redis.Client
	prefix string
}

// NewKV wraps the client, namespacing all keys under prefix. An empty
// prefix stores keys verbatim.
func NewKV(client *redis.Client, prefix string) *KV {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	return &KV{client: client, prefix: prefix}
}

func (kv *KV) key(key string) string {
	if kv.prefix == "" {
		return key
	}
	return kv.prefix + ":" + key
}

// Get reads a key. A missing key reports ok=false, not an error.
func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := kv.client.Get(ctx, kv.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes a key without expiration.
func (kv *KV) Set(ctx context.Context, key, value string) error {
	return kv.client.Set(ctx, kv.key(key), value, 0).Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (kv *KV) Delete(ctx context.Context, key string) error {
	return kv.client.Del(ctx, kv.key(key)).Err()
}
