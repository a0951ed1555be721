// Package static holds the process-wide resettable state described in
// spec §4.5: the next handle counter, the next message-type-id counter
// (by delegation to msgtype, which never resets), the global bus
// reference, the log sink, diagnostics flags and buffer size, and the
// synthetic-owner counter used when a registration has no natural owner.
// There is no log level gate: every line logged is passed to the sink.
//
// Every other package in this module accepts its dependencies by
// explicit injection (a *commbus.Bus, a diagnostics.Logger); this is the
// one place global mutable state is allowed to live, confined behind
// Reset's documented contract (spec §9 "Global mutable state").
package static

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/busmetrics"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/diagnostics"
	"github.com/wallstop/dxmessaging/handle"
)

// Config configures the state Reset restores. The zero value has logging
// disabled, diagnostics off, buffer size 0, metrics off, and
// GlobalAcceptAll dispatch off; DefaultConfig differs from it only in
// turning GlobalAcceptAll dispatch on.
//
// Behavioral toggles like GlobalAcceptAllEnabled and MetricsRegisterer
// are explicit fields here rather than compile-time constants, matching
// the teacher's coreengine.CoreConfig style of keeping every feature flag
// visible in one struct.
type Config struct {
	// Logger receives bus log lines. Nil means diagnostics.NoopLogger().
	Logger diagnostics.Logger
	// DiagnosticsEnabled turns on the log ring buffer.
	DiagnosticsEnabled bool
	// BufferSize is the cyclic log buffer's capacity when diagnostics
	// are enabled. 0 means the ring silently discards everything.
	BufferSize int
	// GlobalAcceptAllEnabled gates whether the reset bus dispatches to
	// GlobalAcceptAll registrations at all. False in the zero value,
	// matching every other Config toggle here (DiagnosticsEnabled,
	// MetricsRegisterer) being off-by-default; use DefaultConfig() for
	// the documented on-by-default pipeline.
	GlobalAcceptAllEnabled bool
	// MetricsRegisterer, when non-nil, is passed to busmetrics.New so the
	// reset global bus records registrations/emissions as Prometheus
	// metrics. Nil (the zero value) disables metrics entirely; New itself
	// is nil-safe, so this costs reset callers nothing when unset.
	MetricsRegisterer prometheus.Registerer
}

// DefaultConfig returns the documented reset defaults as a Config value,
// in the teacher's DefaultCoreConfig() style.
func DefaultConfig() Config {
	return Config{GlobalAcceptAllEnabled: true}
}

var (
	mu sync.Mutex

	handleCounter   = handle.NewCounter()
	ownerCounter    = busid.NewGenerator()
	bus             = commbus.New(nil, nil)
	logger          diagnostics.Logger = diagnostics.NoopLogger()
	logBuffer       *diagnostics.CyclicBuffer[string]
	diagnosticsOn   bool
	sequenceIndex   = -1
	reflexiveGuards = map[*commbus.Bus]*diagnostics.ReflexiveDispatchGuard{}
)

// bufferingLogger wraps a Logger and mirrors every line it emits into the
// diagnostic ring buffer, tagging each with the next sequential index.
// Installed by Reset only when cfg.DiagnosticsEnabled; the underlying
// logger still receives every call unchanged.
type bufferingLogger struct {
	next diagnostics.Logger
}

func (l *bufferingLogger) record(level, msg string, keysAndValues ...any) {
	mu.Lock()
	sequenceIndex++
	idx := sequenceIndex
	if logBuffer != nil {
		logBuffer.Add(fmt.Sprintf("[%d] %s %s %v", idx, level, msg, keysAndValues))
	}
	mu.Unlock()
}

func (l *bufferingLogger) Trace(msg string, kv ...any) {
	l.record("TRACE", msg, kv...)
	l.next.Trace(msg, kv...)
}

func (l *bufferingLogger) Debug(msg string, kv ...any) {
	l.record("DEBUG", msg, kv...)
	l.next.Debug(msg, kv...)
}

func (l *bufferingLogger) Info(msg string, kv ...any) {
	l.record("INFO", msg, kv...)
	l.next.Info(msg, kv...)
}

func (l *bufferingLogger) Warn(msg string, kv ...any) {
	l.record("WARN", msg, kv...)
	l.next.Warn(msg, kv...)
}

func (l *bufferingLogger) Error(msg string, kv ...any) {
	l.record("ERROR", msg, kv...)
	l.next.Error(msg, kv...)
}

// Bus returns the process-global bus, the one emit.EmitUntargeted and
// friends target when no explicit bus is supplied.
func Bus() *commbus.Bus {
	mu.Lock()
	defer mu.Unlock()
	return bus
}

// NextHandle mints the next process-wide RegistrationHandle.
func NextHandle() handle.RegistrationHandle {
	mu.Lock()
	defer mu.Unlock()
	return handleCounter.Next()
}

// NextSyntheticOwner mints an InstanceId for registrations that have no
// natural owner of their own.
func NextSyntheticOwner() busid.InstanceId {
	mu.Lock()
	defer mu.Unlock()
	return ownerCounter.Next()
}

// Logger returns the current global log sink. Never nil.
func Logger() diagnostics.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// DiagnosticsEnabled reports whether the log ring buffer is active.
func DiagnosticsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return diagnosticsOn
}

// LogBuffer returns the current diagnostic ring buffer, or nil if
// diagnostics are disabled.
func LogBuffer() *diagnostics.CyclicBuffer[string] {
	mu.Lock()
	defer mu.Unlock()
	return logBuffer
}

// ReflexiveDispatchGuard returns the one-time warn guard for the given
// bus, creating it on first use.
func ReflexiveDispatchGuard(b *commbus.Bus) *diagnostics.ReflexiveDispatchGuard {
	mu.Lock()
	defer mu.Unlock()
	g, ok := reflexiveGuards[b]
	if !ok {
		g = diagnostics.NewReflexiveDispatchGuard(logger)
		reflexiveGuards[b] = g
	}
	return g
}

// SequenceIndex returns the most recently assigned diagnostic log-line
// index, or -1 if no line has been recorded since the last Reset (spec
// §4.5's "sequential index -1" default).
func SequenceIndex() int {
	mu.Lock()
	defer mu.Unlock()
	return sequenceIndex
}

// Reset restores every counter to its documented default (log disabled,
// diagnostics off, buffer size 0, sequential index -1, handle counter 0,
// synthetic-owner counter 0), replaces the global bus with a fresh
// instance, and clears the log sink. Message-type ids assigned by
// msgtype.Of are untouched: they are process-global and monotonic by
// design (spec §4.5, §8 item 15), the one piece of state reset
// deliberately does not rewind.
func Reset(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	handleCounter.Reset()
	ownerCounter.Reset(0)
	sequenceIndex = -1

	rawLogger := cfg.Logger
	if rawLogger == nil {
		rawLogger = diagnostics.NoopLogger()
	}

	diagnosticsOn = cfg.DiagnosticsEnabled
	if diagnosticsOn {
		logBuffer = diagnostics.NewCyclicBuffer[string](cfg.BufferSize)
		logger = &bufferingLogger{next: rawLogger}
	} else {
		logBuffer = nil
		logger = rawLogger
	}

	bus = commbus.New(logger, busmetrics.New(cfg.MetricsRegisterer))
	bus.SetGlobalAcceptAllEnabled(cfg.GlobalAcceptAllEnabled)
	reflexiveGuards = map[*commbus.Bus]*diagnostics.ReflexiveDispatchGuard{}
}

// SetBus replaces the process-global bus without touching any other
// counter. Used by callers who built their bus with busmetrics.New(reg)
// and want it to become the default target for emit.EmitUntargeted and
// friends.
func SetBus(b *commbus.Bus) {
	mu.Lock()
	defer mu.Unlock()
	bus = b
}
