// Package logger provides slog construction and attribute helpers shared by
// the SDK's components.
//
// Attribute helpers use the empty Attr pattern for nil safety: passing a nil
// error or empty ID produces an empty Attr that slog drops silently, so call
// sites never need explicit nil checks.
//
// Usage:
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug))
//	log.Info("token refreshed", logger.Component("refresher"), logger.Duration(elapsed))
package logger
