// Package logging provides a minimal logging interface and adapters for the
// drawboard.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the engine, hub and server use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - DrawboardLogger with component/session context and domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	board := drawboard.New(func(o *drawboard.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
