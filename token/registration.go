package token

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/handle"
	"github.com/wallstop/dxmessaging/prioritized"
)

// Every function here mirrors its commbus.RegisterXxx counterpart one for
// one, differing only in taking a *Token instead of a *Bus and an owner.
// The token already knows its own owner and bus, so callers supply just
// the registration-specific arguments; the concrete message type M is
// only visible here, closed over into the non-generic
// func(*commbus.Bus) commbus.RetractFunc that Token.record expects.

// --- Untargeted -------------------------------------------------------

func RegisterUntargeted[M any](t *Token, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterUntargeted[M](bus, t.owner, mode, priority, cb)
	})
}

func RegisterUntargetedPostProcessor[M any](t *Token, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterUntargetedPostProcessor[M](bus, t.owner, mode, priority, cb)
	})
}

func RegisterUntargetedInterceptor[M any](t *Token, priority int32, cb func(*M) bool) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterUntargetedInterceptor[M](bus, t.owner, priority, cb)
	})
}

// --- Targeted -----------------------------------------------------------

func RegisterTargetedByTarget[M any](t *Token, target busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterTargetedByTarget[M](bus, t.owner, target, mode, priority, cb)
	})
}

func RegisterTargetedWithoutTargeting[M any](t *Token, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterTargetedWithoutTargeting[M](bus, t.owner, mode, priority, cb)
	})
}

func RegisterTargetedPostProcessor[M any](t *Token, target busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterTargetedPostProcessor[M](bus, t.owner, target, mode, priority, cb)
	})
}

func RegisterTargetedWithoutTargetingPostProcessor[M any](t *Token, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterTargetedWithoutTargetingPostProcessor[M](bus, t.owner, mode, priority, cb)
	})
}

func RegisterTargetedInterceptor[M any](t *Token, priority int32, cb func(*busid.InstanceId, *M) bool) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterTargetedInterceptor[M](bus, t.owner, priority, cb)
	})
}

// --- Broadcast ------------------------------------------------------------

func RegisterBroadcastBySource[M any](t *Token, source busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterBroadcastBySource[M](bus, t.owner, source, mode, priority, cb)
	})
}

func RegisterBroadcastWithoutSource[M any](t *Token, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterBroadcastWithoutSource[M](bus, t.owner, mode, priority, cb)
	})
}

func RegisterBroadcastPostProcessor[M any](t *Token, source busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterBroadcastPostProcessor[M](bus, t.owner, source, mode, priority, cb)
	})
}

func RegisterBroadcastWithoutSourcePostProcessor[M any](t *Token, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterBroadcastWithoutSourcePostProcessor[M](bus, t.owner, mode, priority, cb)
	})
}

func RegisterBroadcastInterceptor[M any](t *Token, priority int32, cb func(*busid.InstanceId, *M) bool) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterBroadcastInterceptor[M](bus, t.owner, priority, cb)
	})
}

// --- Cross-category -------------------------------------------------------

func RegisterGlobalAcceptAll(t *Token, mode prioritized.Mode, priority int32, cbs commbus.GlobalAcceptAllCallbacks) handle.RegistrationHandle {
	return t.record(func(bus *commbus.Bus) commbus.RetractFunc {
		return commbus.RegisterGlobalAcceptAll(bus, t.owner, mode, priority, cbs)
	})
}
