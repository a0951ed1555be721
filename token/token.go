// Package token implements RegistrationToken: a per-owner collection of
// pending and live registrations that can be bulk-realized against a bus
// (Enable) or bulk-retracted while preserving intent (Disable).
//
// Every RegisterXxx free function here defers the actual bus call: it
// records a closure that knows how to realize itself against whatever
// bus the token is currently bound to, and only invokes that closure
// immediately if the token is already enabled (spec §4.3). This mirrors
// the type-erasure trick commbus/registration.go uses to cross the
// "Go forbids generic methods" boundary: the concrete message type M is
// only visible inside the free function call, which closes over it in a
// non-generic func(*commbus.Bus) commbus.RetractFunc.
package token

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/handle"
	"github.com/wallstop/dxmessaging/static"
)

// RebindMode selects what SetBus does to already-enabled registrations
// when the token's target bus changes.
type RebindMode int

const (
	// Preserve leaves active registrations on the old bus; the caller
	// must Disable, SetBus, then Enable to move them. This is the only
	// supported rebind path in Preserve mode.
	Preserve RebindMode = iota
	// RebindActive immediately retracts every active registration from
	// the old bus and realizes it on the new one.
	RebindActive
)

type entry struct {
	register func(bus *commbus.Bus) commbus.RetractFunc
	retract  commbus.RetractFunc // nil while pending (not yet realized)
}

// Token is a per-owner builder: RegisterXxx calls always return a handle
// immediately, whether or not the token is currently enabled.
type Token struct {
	owner busid.InstanceId
	bus   *commbus.Bus
	mode  RebindMode

	enabled bool
	dead    bool
	entries map[handle.RegistrationHandle]*entry
}

// New returns a disabled Token bound to owner and bus.
func New(owner busid.InstanceId, bus *commbus.Bus, mode RebindMode) *Token {
	return &Token{
		owner:   owner,
		bus:     bus,
		mode:    mode,
		entries: make(map[handle.RegistrationHandle]*entry),
	}
}

// Owner returns the InstanceId every registration on this token is
// attached to.
func (t *Token) Owner() busid.InstanceId { return t.owner }

// Enabled reports whether the token currently has its registrations
// realized against its bus.
func (t *Token) Enabled() bool { return t.enabled }

// Bus returns the bus the token is currently bound to.
func (t *Token) Bus() *commbus.Bus { return t.bus }

// record stores reg as a pending registration, immediately realizing it
// if the token is already enabled, and returns its handle.
func (t *Token) record(reg func(bus *commbus.Bus) commbus.RetractFunc) handle.RegistrationHandle {
	if t.dead {
		return handle.Invalid
	}
	h := static.NextHandle()
	e := &entry{register: reg}
	t.entries[h] = e
	if t.enabled {
		e.retract = reg(t.bus)
	}
	return h
}

// RemoveRegistration retracts h from the bus if it is currently active,
// and drops it from the pending set either way. Calling it with a handle
// this token never returned (or already removed) is an InvalidRegistration:
// logged at Warn, a no-op otherwise.
func (t *Token) RemoveRegistration(h handle.RegistrationHandle) {
	e, ok := t.entries[h]
	if !ok {
		static.Logger().Warn("invalid_registration", "handle", h)
		return
	}
	if e.retract != nil {
		e.retract()
	}
	delete(t.entries, h)
}

// Enable realizes every still-pending registration against the token's
// current bus. Idempotent.
func (t *Token) Enable() {
	if t.enabled || t.dead {
		return
	}
	t.enabled = true
	for _, e := range t.entries {
		if e.retract == nil {
			e.retract = e.register(t.bus)
		}
	}
}

// Disable retracts every active registration without discarding the
// token's intent: a later Enable re-realizes them all. Idempotent.
func (t *Token) Disable() {
	if !t.enabled {
		return
	}
	t.enabled = false
	for _, e := range t.entries {
		if e.retract != nil {
			e.retract()
			e.retract = nil
		}
	}
}

// SetBus changes the bus the token targets. In RebindActive mode this
// immediately retracts from the old bus and realizes on the new one if
// the token was enabled; in Preserve mode (the default) the caller must
// Disable/SetBus/Enable explicitly, matching the one supported rebind
// path for that mode (spec §4.3).
func (t *Token) SetBus(bus *commbus.Bus) {
	if t.mode == RebindActive && t.enabled {
		t.Disable()
		t.bus = bus
		t.Enable()
		return
	}
	t.bus = bus
}

// Dispose retracts every active registration and transitions the token
// to a terminal dead state: subsequent Enable/RegisterXxx calls are
// no-ops. Idempotent.
func (t *Token) Dispose() {
	if t.dead {
		return
	}
	t.Disable()
	t.dead = true
	t.entries = make(map[handle.RegistrationHandle]*entry)
}

// Disposable is a scoped-acquisition wrapper around a single
// registration: Dispose retracts it exactly once.
type Disposable struct {
	token  *Token
	handle handle.RegistrationHandle
	done   bool
}

// AsDisposable wraps h (previously returned by a RegisterXxx call on t)
// in a Disposable whose Dispose retracts it.
func (t *Token) AsDisposable(h handle.RegistrationHandle) *Disposable {
	return &Disposable{token: t, handle: h}
}

// Dispose retracts the wrapped registration. Idempotent.
func (d *Disposable) Dispose() {
	if d.done {
		return
	}
	d.done = true
	d.token.RemoveRegistration(d.handle)
}
