// Package commbus implements the in-process typed message bus: dense
// registration tables keyed by message type, target, and source, and the
// five-stage emission pipeline that walks them.
//
// Protocol Categories:
//   - Identity: InstanceId, TypeId (see busid, msgtype)
//   - Ordering: PrioritizedList (see prioritized)
//   - Bus: registration and emission surface (this package)
package commbus

import "github.com/wallstop/dxmessaging/diagnostics"

// Logger is the canonical logging protocol used throughout the bus. It is
// an alias of diagnostics.Logger so callers never need to import both
// packages just to implement one interface.
type Logger = diagnostics.Logger
