package diagnostics

import "sync"

// ReflexiveDispatchGuard tracks whether the one-time "reflexive dispatch
// unresolved" warning has already fired for a bus. The actual
// named-method-by-reflection invocation is out of scope for the core
// (spec §1, §4.2) — this guard is the entire extent of this module's
// involvement: it gives an external reflexive-dispatch implementation
// a place to report "I couldn't resolve the method" exactly once per bus,
// instead of flooding the log sink on every miss.
type ReflexiveDispatchGuard struct {
	mu      sync.Mutex
	fired   bool
	logger  Logger
}

// NewReflexiveDispatchGuard returns a guard that logs through logger the
// first time WarnOnce is called. A nil logger is treated as NoopLogger.
func NewReflexiveDispatchGuard(logger Logger) *ReflexiveDispatchGuard {
	if logger == nil {
		logger = NoopLogger()
	}
	return &ReflexiveDispatchGuard{logger: logger}
}

// WarnOnce logs "reflexive dispatch unresolved" at Warn level the first
// time it is called for this guard, and is a no-op on every subsequent
// call (spec §4.2: "the core guarantees a one-time Warn log per bus on
// first use").
func (g *ReflexiveDispatchGuard) WarnOnce(owner string, method string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fired {
		return
	}
	g.fired = true
	g.logger.Warn("reflexive_dispatch_unresolved", "owner", owner, "method", method)
}

// Fired reports whether WarnOnce has already logged for this guard.
func (g *ReflexiveDispatchGuard) Fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}
