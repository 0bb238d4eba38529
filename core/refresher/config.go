package refresher

import (
	"time"

	"github.com/fieldsales/visitkit/core/apiclient"
)

// Config holds scheduler configuration loaded from the environment.
type Config struct {
	CheckInterval time.Duration `env:"VISITKIT_REFRESH_CHECK_INTERVAL" envDefault:"1m"`
	RenewalBuffer time.Duration `env:"VISITKIT_REFRESH_BUFFER" envDefault:"5m"`
}

// NewFromConfig creates a scheduler from a Config. Options are applied after
// the config values and take precedence.
func NewFromConfig(cfg Config, client *apiclient.Client, opts ...Option) *Scheduler {
	base := []Option{
		WithCheckInterval(cfg.CheckInterval),
		WithRenewalBuffer(cfg.RenewalBuffer),
	}
	return New(client, append(base, opts...)...)
}
