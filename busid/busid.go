// Package busid provides the opaque identity value used to name targets,
// sources, and owners throughout the message bus.
//
// An InstanceId is deliberately a bare comparable value: total order and
// cheap equality/hashing are load-bearing, since targeted and broadcast
// registrations key prioritized lists by (TypeId, InstanceId) pairs on
// every emission.
package busid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// InstanceId identifies a target, source, or registration owner.
//
// The zero value, None, never denotes a live instance; it is used as the
// "no owner" sentinel in places where an owner is optional.
type InstanceId uint64

// None is the invalid/absent InstanceId.
const None InstanceId = 0

// Valid reports whether id denotes a real instance.
func (id InstanceId) Valid() bool {
	return id != None
}

// Compare returns -1, 0, or 1 as id is less than, equal to, or greater
// than other, giving InstanceId a total order.
func (id InstanceId) Compare(other InstanceId) int {
	switch {
	case id < other:
		return -1
	case id > other:
		return 1
	default:
		return 0
	}
}

func (id InstanceId) String() string {
	if id == None {
		return "InstanceId(none)"
	}
	return fmt.Sprintf("InstanceId(%d)", uint64(id))
}

// Generator mints fresh, process-unique InstanceId values by incrementing
// a counter. The zero value is usable and counts up from 1; NewGenerator
// instead starts the counter at a random 63-bit value drawn from a UUID,
// so ids minted by a new process are unlikely to repeat ids a previous
// process may have recorded out-of-band (the bus itself persists nothing,
// but callers sometimes log or snapshot ids externally). Ids from two
// processes are not ordered relative to each other.
type Generator struct {
	counter uint64
}

// NewGenerator returns a Generator seeded from a UUIDv7, falling back to a
// plain random UUID if V7 generation ever fails — the same
// "uuid.NewV7(), fall back to uuid.New() on error" idiom the rest of the
// pack uses for generated identifiers.
func NewGenerator() *Generator {
	seed, err := uuid.NewV7()
	if err != nil {
		seed = uuid.New()
	}
	// Fold the UUID down to a 64-bit seed; only the monotonic counter
	// built on top needs to be unique, not the seed itself.
	var v uint64
	for _, b := range seed {
		v = v<<8 | uint64(b)
	}
	return &Generator{counter: v &^ (1 << 63)}
}

// Next returns the next InstanceId from the generator. Safe for concurrent
// use even though the bus itself is single-threaded, since generators are
// sometimes shared across independently-scheduled owners (e.g. tests).
func (g *Generator) Next() InstanceId {
	return InstanceId(atomic.AddUint64(&g.counter, 1))
}

// Reset rewinds the generator to the given counter value. Used by
// static.Reset to restore a deterministic starting point.
func (g *Generator) Reset(start uint64) {
	atomic.StoreUint64(&g.counter, start)
}
