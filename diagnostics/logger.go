// Package diagnostics provides the bus's single pluggable log sink and
// its auxiliary cyclic diagnostic buffer (spec §6). There is deliberately
// no second observability facility here — no tracing, no structured-log
// backend — matching the boundary spec.md draws in §1: "any debug-log
// plumbing beyond a single pluggable sink" is an external concern.
package diagnostics

import "log"

// Logger is the canonical structured-logging contract for the bus,
// shaped after the teacher's BusLogger/Logger protocols: one method per
// level, a message, and loosely-typed key/value pairs.
type Logger interface {
	Trace(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// defaultLogger wraps the standard log package, mirroring
// commbus.defaultBusLogger in the teacher repo this module started from.
type defaultLogger struct{}

func (l *defaultLogger) Trace(msg string, keysAndValues ...any) {
	log.Printf("[TRACE] %s %v", msg, keysAndValues)
}

func (l *defaultLogger) Debug(msg string, keysAndValues ...any) {
	log.Printf("[DEBUG] %s %v", msg, keysAndValues)
}

func (l *defaultLogger) Info(msg string, keysAndValues ...any) {
	log.Printf("[INFO] %s %v", msg, keysAndValues)
}

func (l *defaultLogger) Warn(msg string, keysAndValues ...any) {
	log.Printf("[WARN] %s %v", msg, keysAndValues)
}

func (l *defaultLogger) Error(msg string, keysAndValues ...any) {
	log.Printf("[ERROR] %s %v", msg, keysAndValues)
}

// DefaultLogger returns a Logger backed by the standard library's log
// package. It is never installed automatically: a bus built with a nil
// logger, and the process-global state before any Reset, use NoopLogger.
func DefaultLogger() Logger {
	return &defaultLogger{}
}

// noopLogger discards everything. This is spec §6's "Default: no sink" —
// DefaultLogger above is merely a convenience for local development; a
// freshly-reset StaticState installs NoopLogger.
type noopLogger struct{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NoopLogger returns a Logger that discards all output.
func NoopLogger() Logger {
	return noopLogger{}
}
