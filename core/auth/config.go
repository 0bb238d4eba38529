package auth

import "time"

// Config holds auth service configuration loaded from the environment.
//
// The bootstrap admin bypass is disabled unless both credentials are set.
type Config struct {
	BootstrapAdminEmail    string        `env:"VISITKIT_BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string        `env:"VISITKIT_BOOTSTRAP_ADMIN_PASSWORD"`
	SettleDelay            time.Duration `env:"VISITKIT_LOGIN_SETTLE_DELAY" envDefault:"100ms"`
}

func (c Config) bootstrapEnabled() bool {
	return c.BootstrapAdminEmail != "" && c.BootstrapAdminPassword != ""
}
