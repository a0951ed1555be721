// Package busmetrics provides optional Prometheus instrumentation for the
// message bus, built in the same promauto.NewCounterVec/NewHistogramVec
// style as the teacher's coreengine/observability package.
//
// Unlike that package, these metrics are registered into a
// caller-supplied prometheus.Registerer rather than the global default
// registry, and the whole package is nil-safe: a *Recorder backed by a
// nil Registerer (or simply a nil *Recorder) records nothing. Metrics are
// numeric instrumentation, not the "debug-log plumbing" spec §1 scopes
// out of the core — they're an opt-in domain-stack addition (see
// SPEC_FULL.md), off unless a caller deliberately wires one in.
package busmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records bus activity as Prometheus metrics. The zero value is
// not usable directly; use New. A nil *Recorder is valid and records
// nothing, so callers can embed "metrics *busmetrics.Recorder" in a
// struct and call methods on it unconditionally.
type Recorder struct {
	registrationsTotal   *prometheus.CounterVec
	emissionsTotal        *prometheus.CounterVec
	overDeregistrations   prometheus.Counter
}

// New creates a Recorder and registers its collectors with reg. If reg is
// nil, New returns nil, giving callers a single nil-check-free code path:
// commbus.New(logger, busmetrics.New(reg)) where reg is nil simply
// disables metrics.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return nil
	}

	r := &Recorder{
		registrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dxmsg_registrations_total",
				Help: "Total registrations accepted by the bus, by kind.",
			},
			[]string{"kind"},
		),
		emissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dxmsg_emissions_total",
				Help: "Total emissions processed by the bus, by category.",
			},
			[]string{"category"},
		),
		overDeregistrations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dxmsg_overderegistrations_total",
				Help: "Total retract calls observed after the registration was already gone.",
			},
		),
	}

	reg.MustRegister(r.registrationsTotal, r.emissionsTotal, r.overDeregistrations)
	return r
}

// Registration records a single registration of the given kind
// ("untargeted", "targeted_by_target", "broadcast_without_source", ...).
func (r *Recorder) Registration(kind string) {
	if r == nil {
		return
	}
	r.registrationsTotal.WithLabelValues(kind).Inc()
}

// Emission records a single emission of the given category ("untargeted",
// "targeted", "broadcast").
func (r *Recorder) Emission(category string) {
	if r == nil {
		return
	}
	r.emissionsTotal.WithLabelValues(category).Inc()
}

// OverDeregistration records one over-deregistration event.
func (r *Recorder) OverDeregistration() {
	if r == nil {
		return
	}
	r.overDeregistrations.Inc()
}
