package handler

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/handle"
	"github.com/wallstop/dxmessaging/prioritized"
	"github.com/wallstop/dxmessaging/token"
)

// Every function here forwards straight to its token package counterpart
// on h's underlying token.Token, attaching nothing of its own: a Handler
// is just a named, disposable lifecycle wrapper around a token (spec
// §4.2 delegates all registration bookkeeping to "its token").

// --- Untargeted -------------------------------------------------------

func RegisterUntargeted[M any](h *Handler, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterUntargeted[M](h.tok, mode, priority, cb)
}

func RegisterUntargetedPostProcessor[M any](h *Handler, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterUntargetedPostProcessor[M](h.tok, mode, priority, cb)
}

func RegisterUntargetedInterceptor[M any](h *Handler, priority int32, cb func(*M) bool) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterUntargetedInterceptor[M](h.tok, priority, cb)
}

// --- Targeted -----------------------------------------------------------

func RegisterTargetedByTarget[M any](h *Handler, target busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterTargetedByTarget[M](h.tok, target, mode, priority, cb)
}

func RegisterTargetedWithoutTargeting[M any](h *Handler, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterTargetedWithoutTargeting[M](h.tok, mode, priority, cb)
}

func RegisterTargetedPostProcessor[M any](h *Handler, target busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterTargetedPostProcessor[M](h.tok, target, mode, priority, cb)
}

func RegisterTargetedWithoutTargetingPostProcessor[M any](h *Handler, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterTargetedWithoutTargetingPostProcessor[M](h.tok, mode, priority, cb)
}

func RegisterTargetedInterceptor[M any](h *Handler, priority int32, cb func(*busid.InstanceId, *M) bool) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterTargetedInterceptor[M](h.tok, priority, cb)
}

// --- Broadcast ------------------------------------------------------------

func RegisterBroadcastBySource[M any](h *Handler, source busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterBroadcastBySource[M](h.tok, source, mode, priority, cb)
}

func RegisterBroadcastWithoutSource[M any](h *Handler, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterBroadcastWithoutSource[M](h.tok, mode, priority, cb)
}

func RegisterBroadcastPostProcessor[M any](h *Handler, source busid.InstanceId, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterBroadcastPostProcessor[M](h.tok, source, mode, priority, cb)
}

func RegisterBroadcastWithoutSourcePostProcessor[M any](h *Handler, mode prioritized.Mode, priority int32, cb any) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterBroadcastWithoutSourcePostProcessor[M](h.tok, mode, priority, cb)
}

func RegisterBroadcastInterceptor[M any](h *Handler, priority int32, cb func(*busid.InstanceId, *M) bool) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterBroadcastInterceptor[M](h.tok, priority, cb)
}

// --- Cross-category -------------------------------------------------------

func RegisterGlobalAcceptAll(h *Handler, mode prioritized.Mode, priority int32, cbs commbus.GlobalAcceptAllCallbacks) handle.RegistrationHandle {
	if h.dead {
		return handle.Invalid
	}
	return token.RegisterGlobalAcceptAll(h.tok, mode, priority, cbs)
}
