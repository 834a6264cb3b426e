// Package metrics exposes pego's parse-session counters as plain
// Prometheus instruments, simplified from the OTel-bridged pattern the
// rest of the pack uses for long-running services: a CLI tool serving
// metrics via `peg --serve-metrics` has no collector to bridge to, so this
// registers directly against a prometheus.Registry via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the three counters a parse session can drive: total
// parses attempted, seed-growing iterations run across every leader
// invocation, and memo-table hits. Nil is a valid *Registry (every
// Inc method tolerates it), so callers can attach metrics optionally.
type Registry struct {
	reg *prometheus.Registry

	ParseTotal             prometheus.Counter
	SeedGrowIterationTotal prometheus.Counter
	MemoHitTotal           prometheus.Counter
}

// New creates an independent Prometheus registry with pego's counters
// registered against it, so repeated calls (e.g. in tests) never
// collide on a shared default registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		ParseTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pego_parse_total",
			Help: "Total number of Evaluator.Parse invocations.",
		}),
		SeedGrowIterationTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pego_seed_grow_iterations_total",
			Help: "Total number of seed-growing loop iterations across all leader rule invocations.",
		}),
		MemoHitTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pego_memo_hits_total",
			Help: "Total number of rule invocations served from the memo table.",
		}),
	}
}

// Handler returns an http.Handler serving r's counters in the
// Prometheus exposition format, for `peg --serve-metrics`.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// IncParse bumps ParseTotal; a nil Registry is a no-op.
func (r *Registry) IncParse() {
	if r == nil {
		return
	}
	r.ParseTotal.Inc()
}

// IncSeedGrowIteration bumps SeedGrowIterationTotal; a nil Registry is a no-op.
func (r *Registry) IncSeedGrowIteration() {
	if r == nil {
		return
	}
	r.SeedGrowIterationTotal.Inc()
}

// IncMemoHit bumps MemoHitTotal; a nil Registry is a no-op.
func (r *Registry) IncMemoHit() {
	if r == nil {
		return
	}
	r.MemoHitTotal.Inc()
}
