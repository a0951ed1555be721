// Package handler implements MessageHandler: a per-owner facade that
// aggregates all of one InstanceId's registrations behind a single
// active/inactive switch, delegating the actual bookkeeping to a
// token.Token (spec §4.2). It is a separate package from token, not a
// thin re-export, because Go has no function overloading: the generic
// RegisterXxx[M] free functions in this package and the ones in token
// both need the same names but operate on different receiver types
// (*Handler vs *token.Token), which only two distinct packages allow.
package handler

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/handle"
	"github.com/wallstop/dxmessaging/static"
	"github.com/wallstop/dxmessaging/token"
)

// Handler is MessageHandler: an owner, a target bus, an active flag, and
// the token that actually holds the pending/live registrations.
type Handler struct {
	owner busid.InstanceId
	tok   *token.Token
	dead  bool
}

// New returns a Handler bound to owner and bus, starting inactive
// (spec §4.2: "starts inactive"). mode is passed to the underlying
// token, where it controls what token.SetBus does; Handler exposes no
// SetBus of its own (the spec gives that lifecycle operation to
// RegistrationToken, not MessageHandler), so mode has no effect on
// anything done through a Handler.
func New(owner busid.InstanceId, bus *commbus.Bus, mode token.RebindMode) *Handler {
	return &Handler{
		owner: owner,
		tok:   token.New(owner, bus, mode),
	}
}

// NewOnGlobalBus returns a Handler bound to owner and the process-global
// bus (spec §4.2: "new(owner) — uses process-global bus").
func NewOnGlobalBus(owner busid.InstanceId, mode token.RebindMode) *Handler {
	return New(owner, static.Bus(), mode)
}

// Owner returns the InstanceId every registration on this handler is
// attached to.
func (h *Handler) Owner() busid.InstanceId { return h.owner }

// Bus returns the bus the handler is currently bound to.
func (h *Handler) Bus() *commbus.Bus { return h.tok.Bus() }

// Active reports whether the handler's registrations are currently
// realized against its bus.
func (h *Handler) Active() bool { return h.tok.Enabled() }

// SetActive arms or retracts every registration recorded through this
// handler. Idempotent in both directions (spec §4.2: "set_active(bool)
// — idempotent").
func (h *Handler) SetActive(active bool) {
	if h.dead {
		return
	}
	if active {
		h.tok.Enable()
	} else {
		h.tok.Disable()
	}
}

// RemoveRegistration retracts a single registration previously returned
// by a RegisterXxx call on this handler.
func (h *Handler) RemoveRegistration(r handle.RegistrationHandle) {
	h.tok.RemoveRegistration(r)
}

// Dispose retracts every registration and transitions the handler to a
// terminal dead state: subsequent SetActive/RegisterXxx calls are no-ops
// (spec §4.2: "On drop, retracts and transitions to a terminal dead
// state").
func (h *Handler) Dispose() {
	if h.dead {
		return
	}
	h.dead = true
	h.tok.Dispose()
}

// WarnReflexiveDispatchOnce logs the one-time "reflexive dispatch
// unresolved" warning through the handler's bus guard. The actual
// named-method-by-reflection dispatch this backs is out of scope for the
// core (spec §4.2): this method is the entire hook point an external
// reflexive-dispatch helper needs.
func (h *Handler) WarnReflexiveDispatchOnce(method string) {
	guard := static.ReflexiveDispatchGuard(h.tok.Bus())
	guard.WarnOnce(h.owner.String(), method)
}

// PrefreezeCount reports how many emissions of M have reached the
// post-processor stage with at least one handler having run, on the bus
// this handler targets (spec §4.2's "diagnostics query (testable)").
func PrefreezeCount[M any](h *Handler) int {
	return commbus.PrefreezeCount[M](h.tok.Bus())
}
