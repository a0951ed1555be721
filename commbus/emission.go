package commbus

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/msgtype"
	"github.com/wallstop/dxmessaging/prioritized"
)

// UntargetedBroadcast runs the five-stage pipeline for an untargeted
// emission of M: Interceptors -> GlobalAcceptAll -> Handlers ->
// PostProcessors (there is no WithoutTarget/WithoutSource stage for the
// untargeted category). msg is passed by pointer throughout so Fast
// handlers can mutate it in place; Action handlers receive a dereferenced
// copy at the point of invocation.
func UntargetedBroadcast[M any](b *Bus, msg *M) {
	typeID := msgtype.Of[M]()

	if list, ok := b.interceptorsUntargeted[typeID]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			if !e.Value.invoke(nil, msg) {
				return
			}
		}
	}

	if b.globalAcceptAllEnabled {
		for _, e := range b.globalAcceptAll.Snapshot() {
			if e.Removed() || e.Value.untargeted == nil {
				continue
			}
			e.Value.untargeted(globalPayload(e.Mode(), msg))
		}
	}

	handlersRan := false
	if list, ok := b.typedUntargeted[typeID]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			e.Value.invoke(busid.None, msg)
			handlersRan = true
		}
	}

	b.runPostProcessors(typeID, handlersRan, func() {
		if list, ok := b.ppUntargeted[typeID]; ok {
			for _, e := range list.Snapshot() {
				if e.Removed() {
					continue
				}
				e.Value.invoke(busid.None, msg)
			}
		}
	})

	if b.metrics != nil {
		b.metrics.Emission("untargeted")
	}
}

// TargetedBroadcast runs the five-stage pipeline for a targeted emission
// of M. target is passed by pointer: interceptors may retarget the
// emission before any handler sees it, and every subsequent stage keys
// off the (possibly rewritten) value.
func TargetedBroadcast[M any](b *Bus, target *busid.InstanceId, msg *M) {
	typeID := msgtype.Of[M]()

	if list, ok := b.interceptorsTargeted[typeID]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			if !e.Value.invoke(target, msg) {
				return
			}
		}
	}

	if b.globalAcceptAllEnabled {
		for _, e := range b.globalAcceptAll.Snapshot() {
			if e.Removed() || e.Value.targeted == nil {
				continue
			}
			e.Value.targeted(*target, globalPayload(e.Mode(), msg))
		}
	}

	handlersRan := false
	key := targetKey{typeID: typeID, id: *target}
	if list, ok := b.typedTargetedByTarget[key]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			e.Value.invoke(*target, msg)
			handlersRan = true
		}
	}
	if list, ok := b.typedTargetedWithoutTarget[typeID]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			e.Value.invoke(*target, msg)
			handlersRan = true
		}
	}

	b.runPostProcessors(typeID, handlersRan, func() {
		if list, ok := b.ppTargetedByTarget[key]; ok {
			for _, e := range list.Snapshot() {
				if e.Removed() {
					continue
				}
				e.Value.invoke(*target, msg)
			}
		}
		if list, ok := b.ppTargetedWithoutTarget[typeID]; ok {
			for _, e := range list.Snapshot() {
				if e.Removed() {
					continue
				}
				e.Value.invoke(*target, msg)
			}
		}
	})

	if b.metrics != nil {
		b.metrics.Emission("targeted")
	}
}

// BroadcastBroadcast runs the five-stage pipeline for a broadcast
// emission of M, keyed by source rather than target; otherwise mirrors
// TargetedBroadcast exactly.
func BroadcastBroadcast[M any](b *Bus, source *busid.InstanceId, msg *M) {
	typeID := msgtype.Of[M]()

	if list, ok := b.interceptorsBroadcast[typeID]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			if !e.Value.invoke(source, msg) {
				return
			}
		}
	}

	if b.globalAcceptAllEnabled {
		for _, e := range b.globalAcceptAll.Snapshot() {
			if e.Removed() || e.Value.broadcast == nil {
				continue
			}
			e.Value.broadcast(*source, globalPayload(e.Mode(), msg))
		}
	}

	handlersRan := false
	key := targetKey{typeID: typeID, id: *source}
	if list, ok := b.typedBroadcastBySource[key]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			e.Value.invoke(*source, msg)
			handlersRan = true
		}
	}
	if list, ok := b.typedBroadcastWithoutSource[typeID]; ok {
		for _, e := range list.Snapshot() {
			if e.Removed() {
				continue
			}
			e.Value.invoke(*source, msg)
			handlersRan = true
		}
	}

	b.runPostProcessors(typeID, handlersRan, func() {
		if list, ok := b.ppBroadcastBySource[key]; ok {
			for _, e := range list.Snapshot() {
				if e.Removed() {
					continue
				}
				e.Value.invoke(*source, msg)
			}
		}
		if list, ok := b.ppBroadcastWithoutSource[typeID]; ok {
			for _, e := range list.Snapshot() {
				if e.Removed() {
					continue
				}
				e.Value.invoke(*source, msg)
			}
		}
	})

	if b.metrics != nil {
		b.metrics.Emission("broadcast")
	}
}

// runPostProcessors prefreezes (counts) the post-processor stage exactly
// once, then runs run, which performs however many snapshot iterations
// (specific then keyless) the category needs. Prefreeze only counts when
// at least one handler fired upstream (§4.1.1 stage 5), satisfying
// invariant 16 (at most one prefreeze per emission) at the granularity
// of (message type) rather than (message type, priority) — see
// DESIGN.md for why per-priority counting doesn't apply cleanly to a
// single sorted-list snapshot.
func (b *Bus) runPostProcessors(typeID msgtype.TypeId, handlersRan bool, run func()) {
	if handlersRan {
		b.prefreeze[typeID]++
	}
	run()
}

// globalPayload boxes msg for a GlobalAcceptAll callback according to mode:
// Fast keeps the live pointer (so the callback can mutate the emission in
// place, same as every other Fast registration), Action boxes a
// dereferenced copy (spec §3: "Action callbacks receive them by value").
// GlobalAcceptAllCallbacks are declared func(any) rather than generic over
// M, so this dispatch has to happen here rather than at the call site.
func globalPayload[M any](mode prioritized.Mode, msg *M) any {
	if mode == prioritized.Fast {
		return msg
	}
	return *msg
}
