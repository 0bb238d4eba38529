package apiclient

import (
	"time"

	"github.com/fieldsales/visitkit/core/session"
)

// Config holds client configuration loaded from the environment.
type Config struct {
	BaseURL   string        `env:"VISITKIT_API_BASE_URL,required"`
	Timeout   time.Duration `env:"VISITKIT_HTTP_TIMEOUT" envDefault:"30s"`
	UserAgent string        `env:"VISITKIT_USER_AGENT" envDefault:"visitkit"`
}

// NewFromConfig creates a client from a Config. Options are applied after
// the config values and take precedence.
func NewFromConfig(cfg Config, store *session.Store, opts ...Option) (*Client, error) {
	base := []Option{
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
	}
	return New(cfg.BaseURL, store, append(base, opts...)...)
}
