// Package redis provides Redis client initialization and a session
// key-value adapter for shared credential storage.
//
// Connect wraps the go-redis client with URL validation, retry with
// backoff, and a ping verification so callers get a client that is known
// to be reachable:
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// NewKV adapts the client to the session.KV interface so several workers
// on the same host can share one credential set:
//
//	store := session.NewStore(redis.NewKV(client, "visitkit"))
//
// Keys are namespaced under the given prefix ("visitkit:access_token").
// Healthcheck returns a ping function suitable for readiness probes.
//
// Domain errors (ErrFailedToParseConnString, ErrNotReady,
// ErrEmptyConnectionURL, ErrHealthcheckFailed) wrap the underlying client
// errors and are stable targets for errors.Is.
package redis
