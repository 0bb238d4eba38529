package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParseFailed wraps environment parsing failures.
var ErrParseFailed = errors.New("failed to parse config from environment")

var (
	mu    sync.Mutex
	cache = make(map[reflect.Type]any)

	// .env autoload happens once per process; a missing file is fine.
	dotenvOnce sync.Once
)

// Load populates cfg from environment variables. Each configuration type is
// parsed once per process and cached; later calls for the same type return
// the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target cannot be nil")
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(*cfg)
	if cached, ok := cache[t]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	cache[t] = *cfg
	return nil
}

// MustLoad is Load that panics on failure. Useful at startup where a
// missing required variable should stop the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
