package commbus

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/prioritized"
)

// RetractFunc is returned by every Register* call. The first invocation
// removes the registration from its owning list and decrements whatever
// bus-observable counter tracks it; every subsequent invocation is an
// over-deregistration: logged at Error and otherwise a no-op.
type RetractFunc func()

// newRetract builds an idempotent RetractFunc closing over a single
// entry in list. onRemove, if non-nil, runs exactly once, on the
// invocation that actually removes the entry (never on a repeat call).
// The idempotence is encoded entirely in the closure's local "done" flag,
// not in the caller, matching the scoped-acquisition retract described
// for RegistrationToken.
func newRetract[T any](b *Bus, list *prioritized.List[T], entry *prioritized.Entry[T], onRemove func()) RetractFunc {
	var done bool
	return func() {
		if done {
			b.logger.Error("over_deregistration")
			if b.metrics != nil {
				b.metrics.OverDeregistration()
			}
			return
		}
		done = true
		list.Remove(entry)
		if onRemove != nil {
			onRemove()
		}
	}
}

// GlobalAcceptAllCallbacks groups the three category-specific callbacks a
// single RegisterGlobalAcceptAll call contributes. Any of the three may
// be nil; a nil callback simply never fires for that category. All three
// share one priority slot and one position in the registration-order
// tiebreak, since they come from a single call to RegisterGlobalAcceptAll.
type GlobalAcceptAllCallbacks struct {
	Untargeted func(msg any)
	Targeted   func(target busid.InstanceId, msg any)
	Broadcast  func(source busid.InstanceId, msg any)
}
