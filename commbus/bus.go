package commbus

import (
	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/busmetrics"
	"github.com/wallstop/dxmessaging/diagnostics"
	"github.com/wallstop/dxmessaging/msgtype"
	"github.com/wallstop/dxmessaging/prioritized"
)

// handlerEntry is the type-erased registration payload stored in every
// handler and post-processor table. invoke is built at registration time
// by the Register* free function, which is the last place the concrete
// message type M is known; from then on the bus only ever deals in
// handlerEntry, regardless of how many distinct M types share a table
// family.
type handlerEntry struct {
	invoke func(key busid.InstanceId, msg any)
}

// interceptorEntry is the type-erased interceptor payload. invoke
// returns false to short-circuit the remainder of the emission.
type interceptorEntry struct {
	invoke func(key *busid.InstanceId, msg any) bool
}

// globalEntry is the payload for a single RegisterGlobalAcceptAll call.
// Unlike handlerEntry/interceptorEntry it is not type-erased per message
// type because GlobalAcceptAll was never typed to begin with (§3: one
// flat, un-keyed list; see DESIGN.md for why this reading was chosen over
// treating it as "per message-type M").
type globalEntry struct {
	untargeted func(msg any)
	targeted   func(key busid.InstanceId, msg any)
	broadcast  func(key busid.InstanceId, msg any)
}

// targetKey keys the by-target and by-source tables: a (TypeId,
// InstanceId) pair is the only thing that distinguishes "handlers for
// message M targeted at instance X" from every other (type, key) pair.
type targetKey struct {
	typeID msgtype.TypeId
	id     busid.InstanceId
}

// Bus is the dispatcher. It owns every per-(type,target) and per-type
// registration table and executes the five-stage emission pipeline
// described for UntargetedBroadcast/TargetedBroadcast/BroadcastBroadcast.
//
// Bus carries no mutex: the scheduling model is single-threaded
// cooperative (all bus operations execute on one logical thread of
// control; re-entrant emission from inside a callback is supported
// because each emission takes its own fresh snapshots). Callers that
// drive a Bus from more than one goroutine must supply their own
// external synchronization.
type Bus struct {
	logger  diagnostics.Logger
	metrics *busmetrics.Recorder

	typedUntargeted              map[msgtype.TypeId]*prioritized.List[handlerEntry]
	typedTargetedByTarget        map[targetKey]*prioritized.List[handlerEntry]
	typedTargetedWithoutTarget   map[msgtype.TypeId]*prioritized.List[handlerEntry]
	typedBroadcastBySource       map[targetKey]*prioritized.List[handlerEntry]
	typedBroadcastWithoutSource  map[msgtype.TypeId]*prioritized.List[handlerEntry]

	ppUntargeted             map[msgtype.TypeId]*prioritized.List[handlerEntry]
	ppTargetedByTarget       map[targetKey]*prioritized.List[handlerEntry]
	ppTargetedWithoutTarget  map[msgtype.TypeId]*prioritized.List[handlerEntry]
	ppBroadcastBySource      map[targetKey]*prioritized.List[handlerEntry]
	ppBroadcastWithoutSource map[msgtype.TypeId]*prioritized.List[handlerEntry]

	interceptorsUntargeted map[msgtype.TypeId]*prioritized.List[interceptorEntry]
	interceptorsTargeted   map[msgtype.TypeId]*prioritized.List[interceptorEntry]
	interceptorsBroadcast  map[msgtype.TypeId]*prioritized.List[interceptorEntry]

	globalAcceptAll        *prioritized.List[globalEntry]
	globalAcceptAllEnabled bool

	registeredUntargeted int
	registeredTargeted   int
	registeredBroadcast  int

	// prefreeze counts, per message type, how many emissions reached the
	// post-processor stage with at least one handler having fired. See
	// handler.PrefreezeCount and DESIGN.md for the (type,priority)
	// vs (type)-only granularity decision.
	prefreeze map[msgtype.TypeId]int
}

// New creates an empty Bus. logger may be nil (treated as
// diagnostics.NoopLogger()); metrics may be nil (metrics disabled).
func New(logger diagnostics.Logger, metrics *busmetrics.Recorder) *Bus {
	if logger == nil {
		logger = diagnostics.NoopLogger()
	}
	return &Bus{
		logger:                 logger,
		metrics:                metrics,
		globalAcceptAllEnabled: true,

		typedUntargeted:             make(map[msgtype.TypeId]*prioritized.List[handlerEntry]),
		typedTargetedByTarget:       make(map[targetKey]*prioritized.List[handlerEntry]),
		typedTargetedWithoutTarget:  make(map[msgtype.TypeId]*prioritized.List[handlerEntry]),
		typedBroadcastBySource:      make(map[targetKey]*prioritized.List[handlerEntry]),
		typedBroadcastWithoutSource: make(map[msgtype.TypeId]*prioritized.List[handlerEntry]),

		ppUntargeted:             make(map[msgtype.TypeId]*prioritized.List[handlerEntry]),
		ppTargetedByTarget:       make(map[targetKey]*prioritized.List[handlerEntry]),
		ppTargetedWithoutTarget:  make(map[msgtype.TypeId]*prioritized.List[handlerEntry]),
		ppBroadcastBySource:      make(map[targetKey]*prioritized.List[handlerEntry]),
		ppBroadcastWithoutSource: make(map[msgtype.TypeId]*prioritized.List[handlerEntry]),

		interceptorsUntargeted: make(map[msgtype.TypeId]*prioritized.List[interceptorEntry]),
		interceptorsTargeted:   make(map[msgtype.TypeId]*prioritized.List[interceptorEntry]),
		interceptorsBroadcast:  make(map[msgtype.TypeId]*prioritized.List[interceptorEntry]),

		globalAcceptAll: prioritized.NewList[globalEntry](),

		prefreeze: make(map[msgtype.TypeId]int),
	}
}

// RegisteredUntargeted returns the number of currently live untargeted
// handler registrations (invariant 14).
func (b *Bus) RegisteredUntargeted() int { return b.registeredUntargeted }

// RegisteredTargeted returns the number of currently live targeted
// handler registrations, by-target and without-targeting together.
func (b *Bus) RegisteredTargeted() int { return b.registeredTargeted }

// RegisteredBroadcast returns the number of currently live broadcast
// handler registrations, by-source and without-source together.
func (b *Bus) RegisteredBroadcast() int { return b.registeredBroadcast }

// SetGlobalAcceptAllEnabled gates whether any of the three emit entry
// points consult the GlobalAcceptAll table at all. Existing registrations
// are preserved either way; this only toggles whether the pipeline's
// GlobalAcceptAll stage runs (spec supplement: static.Config's explicit
// GlobalAcceptAllEnabled feature flag).
func (b *Bus) SetGlobalAcceptAllEnabled(enabled bool) { b.globalAcceptAllEnabled = enabled }

// PrefreezeCount reports how many emissions of messages of type M have
// reached the post-processor stage with at least one handler having
// fired (invariant 16: at most one prefreeze per emission).
func PrefreezeCount[M any](b *Bus) int {
	return b.prefreeze[msgtype.Of[M]()]
}

func getOrCreate[K comparable, V any](m map[K]*prioritized.List[V], k K) *prioritized.List[V] {
	if l, ok := m[k]; ok {
		return l
	}
	l := prioritized.NewList[V]()
	m[k] = l
	return l
}
