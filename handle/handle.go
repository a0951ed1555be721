// Package handle defines the opaque token returned by every registration
// call on the bus.
package handle

import "fmt"

// RegistrationHandle is a globally-unique (within a process lifetime)
// token identifying one registration. The zero value, Invalid, is never
// returned by a real registration.
type RegistrationHandle uint64

// Invalid is the handle value that never denotes a real registration.
const Invalid RegistrationHandle = 0

func (h RegistrationHandle) String() string {
	if h == Invalid {
		return "RegistrationHandle(invalid)"
	}
	return fmt.Sprintf("RegistrationHandle(%d)", uint64(h))
}

// Counter mints RegistrationHandle values. It is resettable: StaticState
// resets the process-global counter back to zero on reset(), after which
// handle values are reused by design (spec §4.3 invariant).
type Counter struct {
	next uint64
}

// NewCounter returns a Counter starting at handle 1 (0 is reserved for
// Invalid).
func NewCounter() *Counter {
	return &Counter{next: 0}
}

// Next returns the next handle value. Not safe for concurrent use without
// external synchronization; the bus is single-threaded per spec §5.
func (c *Counter) Next() RegistrationHandle {
	c.next++
	return RegistrationHandle(c.next)
}

// Reset rewinds the counter back to its initial state, reusing handle
// values from 1 onward.
func (c *Counter) Reset() {
	c.next = 0
}
