// Package msgtype assigns a stable, dense integer identity to each
// concrete message type the bus sees, on first use. The assignment is
// process-global and monotonic: it is never rewound by static.Reset,
// which is precisely what lets message-type ids survive a StaticState
// reset (spec §4.5, §8 item 15) while every other counter in the process
// rewinds to zero.
package msgtype

import (
	"reflect"
	"sync"
)

// TypeId is the dense integer identity of a concrete message type.
type TypeId int

var (
	mu     sync.Mutex
	ids    = make(map[reflect.Type]TypeId)
	nextID TypeId
)

// Of returns the TypeId for message type M, assigning a fresh one on the
// type's first use. Safe for concurrent use, though the bus itself never
// calls this concurrently (spec §5 single-threaded model) — tests do.
func Of[M any]() TypeId {
	t := reflect.TypeOf((*M)(nil)).Elem()

	mu.Lock()
	defer mu.Unlock()

	if id, ok := ids[t]; ok {
		return id
	}
	id := nextID
	nextID++
	ids[t] = id
	return id
}

// Count returns the number of distinct message types seen so far in this
// process. Exposed for diagnostics and tests; not part of the bus's
// emission hot path.
func Count() int {
	mu.Lock()
	defer mu.Unlock()
	return int(nextID)
}
