// Package emit provides the free emission entry points of spec §4.4:
// emit_untargeted/_targeted/_broadcast and their *_on variants, plus the
// host-integration helpers that convert an external reference to an
// InstanceId before forwarding. The actual scene-graph/component
// identity resolution those helpers sit in front of is explicitly out of
// scope for this module (spec §1: "host scene-graph integration ...
// treated as external collaborators") — HostRef below is the entire
// extent of this package's involvement in that boundary.
package emit

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/static"
)

// --- Untargeted -------------------------------------------------------

// EmitUntargeted emits msg on the process-global bus.
func EmitUntargeted[M any](msg *M) {
	EmitUntargetedOn(static.Bus(), msg)
}

// EmitUntargetedOn emits msg on bus.
func EmitUntargetedOn[M any](bus *commbus.Bus, msg *M) {
	commbus.UntargetedBroadcast(bus, msg)
}

// --- Targeted -----------------------------------------------------------

// EmitTargeted emits msg at target on the process-global bus.
func EmitTargeted[M any](msg *M, target busid.InstanceId) {
	EmitTargetedOn(static.Bus(), msg, target)
}

// EmitTargetedOn emits msg at target on bus.
func EmitTargetedOn[M any](bus *commbus.Bus, msg *M, target busid.InstanceId) {
	commbus.TargetedBroadcast(bus, &target, msg)
}

// --- Broadcast ------------------------------------------------------------

// EmitBroadcast emits msg from source on the process-global bus.
func EmitBroadcast[M any](msg *M, source busid.InstanceId) {
	EmitBroadcastOn(static.Bus(), msg, source)
}

// EmitBroadcastOn emits msg from source on bus.
func EmitBroadcastOn[M any](bus *commbus.Bus, msg *M, source busid.InstanceId) {
	commbus.BroadcastBroadcast(bus, &source, msg)
}

// --- Host-integration helpers -----------------------------------------

// HostRef is the minimal boundary a scene-graph object or component must
// satisfy to be used as a target or source without the caller resolving
// an InstanceId by hand. ResolveInstanceId reports false for a null or
// already-dead host reference; per spec §4.4 that must fail the emission
// with InvalidTarget rather than silently falling back to busid.None.
type HostRef interface {
	ResolveInstanceId() (busid.InstanceId, bool)
}

// EmitTargetedToHost resolves host to an InstanceId and forwards to
// EmitTargetedOn. A nil or dead host fails with InvalidTarget and never
// reaches the bus.
func EmitTargetedToHost[M any](bus *commbus.Bus, msg *M, host HostRef) error {
	id, ok := resolveHost(host)
	if !ok {
		return commbus.NewInvalidTargetError("host reference did not resolve to a live InstanceId")
	}
	EmitTargetedOn(bus, msg, id)
	return nil
}

// EmitBroadcastFromHost resolves host to an InstanceId and forwards to
// EmitBroadcastOn. A nil or dead host fails with InvalidTarget and never
// reaches the bus.
func EmitBroadcastFromHost[M any](bus *commbus.Bus, msg *M, host HostRef) error {
	id, ok := resolveHost(host)
	if !ok {
		return commbus.NewInvalidTargetError("host reference did not resolve to a live InstanceId")
	}
	EmitBroadcastOn(bus, msg, id)
	return nil
}

func resolveHost(host HostRef) (busid.InstanceId, bool) {
	if host == nil {
		return busid.None, false
	}
	id, ok := host.ResolveInstanceId()
	if !ok || !id.Valid() {
		return busid.None, false
	}
	return id, true
}
