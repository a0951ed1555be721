package commbus

import (
	"fmt"

	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/msgtype"
	"github.com/wallstop/dxmessaging/prioritized"
)

// Go forbids generic methods (a method can't carry type parameters
// beyond its receiver's), so every Register*/Emit* operation here is a
// free function parameterized by the message type M, taking *Bus as an
// explicit first argument — exactly the framing §4.4 already uses for
// the emission API ("free functions on the message payload").
//
// Fast vs. Action is a runtime choice (cb is `any`, mode picks the
// expected shape) rather than two separate generic functions, because a
// single RegistrationToken entry point needs to accept either shape
// uniformly; a mismatched cb panics immediately at registration with a
// descriptive message rather than failing silently at first dispatch.

func mustFastUntargeted[M any](cb any) func(*M) {
	fn, ok := cb.(func(*M))
	if !ok {
		panic(fmt.Sprintf("commbus: Fast callback for %T must have type func(*%T)", *new(M), *new(M)))
	}
	return fn
}

func mustActionUntargeted[M any](cb any) func(M) {
	fn, ok := cb.(func(M))
	if !ok {
		panic(fmt.Sprintf("commbus: Action callback for %T must have type func(%T)", *new(M), *new(M)))
	}
	return fn
}

func mustFastKeyed[M any](cb any) func(busid.InstanceId, *M) {
	fn, ok := cb.(func(busid.InstanceId, *M))
	if !ok {
		panic(fmt.Sprintf("commbus: Fast keyed callback for %T must have type func(busid.InstanceId, *%T)", *new(M), *new(M)))
	}
	return fn
}

func mustActionKeyed[M any](cb any) func(busid.InstanceId, M) {
	fn, ok := cb.(func(busid.InstanceId, M))
	if !ok {
		panic(fmt.Sprintf("commbus: Action keyed callback for %T must have type func(busid.InstanceId, %T)", *new(M), *new(M)))
	}
	return fn
}

// adaptUntargeted builds the type-erased invoke closure for a plain
// (key-less) handler or post-processor registration.
func adaptUntargeted[M any](cb any, mode prioritized.Mode) func(busid.InstanceId, any) {
	switch mode {
	case prioritized.Fast:
		fn := mustFastUntargeted[M](cb)
		return func(_ busid.InstanceId, msg any) { fn(msg.(*M)) }
	default:
		fn := mustActionUntargeted[M](cb)
		return func(_ busid.InstanceId, msg any) { fn(*msg.(*M)) }
	}
}

// adaptKeyed builds the type-erased invoke closure for a by-target,
// by-source, WithoutTargeting, or WithoutSource handler/post-processor
// registration: every one of those receives both the key and the
// message.
func adaptKeyed[M any](cb any, mode prioritized.Mode) func(busid.InstanceId, any) {
	switch mode {
	case prioritized.Fast:
		fn := mustFastKeyed[M](cb)
		return func(key busid.InstanceId, msg any) { fn(key, msg.(*M)) }
	default:
		fn := mustActionKeyed[M](cb)
		return func(key busid.InstanceId, msg any) { fn(key, *msg.(*M)) }
	}
}

// --- Untargeted -------------------------------------------------------

// RegisterUntargeted registers a handler that fires for every
// UntargetedBroadcast of M, in priority/mode/registration order. cb must
// be func(*M) for mode == prioritized.Fast or func(M) for
// mode == prioritized.Action.
func RegisterUntargeted[M any](b *Bus, owner busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.typedUntargeted, typeID)
	invoke := adaptUntargeted[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	b.registeredUntargeted++
	if b.metrics != nil {
		b.metrics.Registration("untargeted")
	}
	_ = owner // owner is carried for MessageHandler aggregation; the bus itself doesn't key on it.
	return newRetract(b, list, entry, func() { b.registeredUntargeted-- })
}

// RegisterUntargetedPostProcessor registers a terminal-stage observer of
// M that runs after every handler for that emission has run.
func RegisterUntargetedPostProcessor[M any](b *Bus, owner busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.ppUntargeted, typeID)
	invoke := adaptUntargeted[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// RegisterUntargetedInterceptor registers a predicate stage that runs
// before every other stage of an UntargetedBroadcast of M. Returning
// false aborts the remainder of that emission.
func RegisterUntargetedInterceptor[M any](b *Bus, owner busid.InstanceId, priority int32, cb func(*M) bool) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.interceptorsUntargeted, typeID)
	entry := list.Add(priority, prioritized.Fast, interceptorEntry{
		invoke: func(_ *busid.InstanceId, msg any) bool { return cb(msg.(*M)) },
	})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// --- Targeted -----------------------------------------------------------

// RegisterTargetedByTarget registers a handler that fires only for
// TargetedBroadcast emissions of M whose target equals target.
func RegisterTargetedByTarget[M any](b *Bus, owner busid.InstanceId, target busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	key := targetKey{typeID: typeID, id: target}
	list := getOrCreate(b.typedTargetedByTarget, key)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	b.registeredTargeted++
	if b.metrics != nil {
		b.metrics.Registration("targeted_by_target")
	}
	_ = owner
	return newRetract(b, list, entry, func() { b.registeredTargeted-- })
}

// RegisterTargetedWithoutTargeting registers a handler that fires for
// every TargetedBroadcast of M regardless of target.
func RegisterTargetedWithoutTargeting[M any](b *Bus, owner busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.typedTargetedWithoutTarget, typeID)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	b.registeredTargeted++
	if b.metrics != nil {
		b.metrics.Registration("targeted_without_targeting")
	}
	_ = owner
	return newRetract(b, list, entry, func() { b.registeredTargeted-- })
}

// RegisterTargetedPostProcessor registers a terminal-stage observer keyed
// to a specific target.
func RegisterTargetedPostProcessor[M any](b *Bus, owner busid.InstanceId, target busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	key := targetKey{typeID: typeID, id: target}
	list := getOrCreate(b.ppTargetedByTarget, key)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// RegisterTargetedWithoutTargetingPostProcessor registers a terminal-stage
// observer of every TargetedBroadcast of M, regardless of target.
func RegisterTargetedWithoutTargetingPostProcessor[M any](b *Bus, owner busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.ppTargetedWithoutTarget, typeID)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// RegisterTargetedInterceptor registers a predicate stage that may
// mutate both the target and the message, and may abort the remainder
// of a TargetedBroadcast emission by returning false.
func RegisterTargetedInterceptor[M any](b *Bus, owner busid.InstanceId, priority int32, cb func(*busid.InstanceId, *M) bool) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.interceptorsTargeted, typeID)
	entry := list.Add(priority, prioritized.Fast, interceptorEntry{
		invoke: func(key *busid.InstanceId, msg any) bool { return cb(key, msg.(*M)) },
	})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// --- Broadcast ----------------------------------------------------------

// RegisterBroadcastBySource registers a handler that fires only for
// BroadcastBroadcast emissions of M whose source equals source.
func RegisterBroadcastBySource[M any](b *Bus, owner busid.InstanceId, source busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	key := targetKey{typeID: typeID, id: source}
	list := getOrCreate(b.typedBroadcastBySource, key)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	b.registeredBroadcast++
	if b.metrics != nil {
		b.metrics.Registration("broadcast_by_source")
	}
	_ = owner
	return newRetract(b, list, entry, func() { b.registeredBroadcast-- })
}

// RegisterBroadcastWithoutSource registers a handler that fires for
// every BroadcastBroadcast of M regardless of source.
func RegisterBroadcastWithoutSource[M any](b *Bus, owner busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.typedBroadcastWithoutSource, typeID)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	b.registeredBroadcast++
	if b.metrics != nil {
		b.metrics.Registration("broadcast_without_source")
	}
	_ = owner
	return newRetract(b, list, entry, func() { b.registeredBroadcast-- })
}

// RegisterBroadcastPostProcessor registers a terminal-stage observer
// keyed to a specific source.
func RegisterBroadcastPostProcessor[M any](b *Bus, owner busid.InstanceId, source busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	key := targetKey{typeID: typeID, id: source}
	list := getOrCreate(b.ppBroadcastBySource, key)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// RegisterBroadcastWithoutSourcePostProcessor registers a terminal-stage
// observer of every BroadcastBroadcast of M, regardless of source.
func RegisterBroadcastWithoutSourcePostProcessor[M any](b *Bus, owner busid.InstanceId, mode prioritized.Mode, priority int32, cb any) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.ppBroadcastWithoutSource, typeID)
	invoke := adaptKeyed[M](cb, mode)
	entry := list.Add(priority, mode, handlerEntry{invoke: invoke})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// RegisterBroadcastInterceptor registers a predicate stage that may
// mutate both the source and the message, and may abort the remainder
// of a BroadcastBroadcast emission by returning false.
func RegisterBroadcastInterceptor[M any](b *Bus, owner busid.InstanceId, priority int32, cb func(*busid.InstanceId, *M) bool) RetractFunc {
	typeID := msgtype.Of[M]()
	list := getOrCreate(b.interceptorsBroadcast, typeID)
	entry := list.Add(priority, prioritized.Fast, interceptorEntry{
		invoke: func(key *busid.InstanceId, msg any) bool { return cb(key, msg.(*M)) },
	})
	_ = owner
	return newRetract(b, list, entry, nil)
}

// --- Cross-category -------------------------------------------------------

// RegisterGlobalAcceptAll registers one entry that reacts to emissions of
// every message type and every category, dispatching to whichever of
// cbs' three callbacks matches the emitted category. It is not typed
// over M (see globalEntry): the bus's global_accept_all table is a
// single flat list, not one table per message type (§3).
func RegisterGlobalAcceptAll(b *Bus, owner busid.InstanceId, mode prioritized.Mode, priority int32, cbs GlobalAcceptAllCallbacks) RetractFunc {
	entry := b.globalAcceptAll.Add(priority, mode, globalEntry{
		untargeted: cbs.Untargeted,
		targeted:   cbs.Targeted,
		broadcast:  cbs.Broadcast,
	})
	if b.metrics != nil {
		b.metrics.Registration("global_accept_all")
	}
	_ = owner
	return newRetract(b, b.globalAcceptAll, entry, nil)
}
