// Package config loads typed configuration from environment variables.
//
// A .env file is loaded automatically on first use, then struct fields are
// populated via caarlos0/env tags. Each configuration type is parsed once
// per process and cached, so components can load their own config slices
// independently without re-reading the environment.
//
// Usage:
//
//	type Config struct {
//		API       apiclient.Config
//		Refresher refresher.Config
//
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// MustLoad panics instead of returning an error, which suits one-shot
// startup wiring.
package config
