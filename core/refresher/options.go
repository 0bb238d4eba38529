package refresher

import (
	"log/slog"
	"time"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCheckInterval sets the cadence of token freshness checks.
// Default is one minute.
func WithCheckInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithRenewalBuffer sets how long before expiry a renewal is attempted.
// Default is five minutes.
func WithRenewalBuffer(buffer time.Duration) Option {
	return func(s *Scheduler) {
		if buffer > 0 {
			s.buffer = buffer
		}
	}
}

// WithClock injects the time source used for expiration checks.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger configures structured logging for the renewal loop.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.logger = log
		}
	}
}
