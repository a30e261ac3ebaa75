// Package observability exposes Prometheus collectors for the protocol
// engines, grounded on the teacher's lazily-initialised singleton registry
// pattern (observability/metrics.go's moduleMetrics/PayoutdMetrics shape).
package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	xassetcoreerrors "xassetcore/core/errors"
)

// EngineMetrics bundles collectors for the CDP and stability pool. The CDP
// engine takes it through SetMetrics; native/stabilitypool has no metrics
// hook and does not call RecordPoolTotals. A nil *EngineMetrics is valid
// everywhere and every method is a no-op against it, so engines can be
// constructed without metrics wired in.
type EngineMetrics struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	collatBps  *prometheus.GaugeVec
	poolTotal  *prometheus.GaugeVec
}

var (
	engineMetricsOnce sync.Once
	engineRegistry    *EngineMetrics
)

// Engine returns the lazily-initialised metrics registry for the CDP and
// stability pool engines.
func Engine() *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineRegistry = &EngineMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "xasset",
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Count of engine operations segmented by module, operation, and outcome.",
			}, []string{"module", "operation", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "xasset",
				Subsystem: "engine",
				Name:      "errors_total",
				Help:      "Count of engine operation failures segmented by module, operation, and error code.",
			}, []string{"module", "operation", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "xasset",
				Subsystem: "engine",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for engine operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"module", "operation"}),
			collatBps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "xasset",
				Subsystem: "cdp",
				Name:      "collateralization_ratio_bps",
				Help:      "Most recently observed collateralization ratio for a position, in basis points.",
			}, []string{"lender"}),
			poolTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "xasset",
				Subsystem: "stabilitypool",
				Name:      "total",
				Help:      "Stability pool aggregate totals segmented by kind (xasset, collateral).",
			}, []string{"kind"}),
		}
		prometheus.MustRegister(
			engineRegistry.operations,
			engineRegistry.errors,
			engineRegistry.latency,
			engineRegistry.collatBps,
			engineRegistry.poolTotal,
		)
	})
	return engineRegistry
}

// Observe records the outcome and latency of an engine operation.
func (m *EngineMetrics) Observe(module, operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	module, operation = label(module), label(operation)
	outcome := "success"
	if err != nil {
		outcome = "error"
		code := "unknown"
		if c, ok := xassetcoreerrors.CodeOf(err); ok {
			code = c.String()
		}
		m.errors.WithLabelValues(module, operation, code).Inc()
	}
	m.operations.WithLabelValues(module, operation, outcome).Inc()
	m.latency.WithLabelValues(module, operation).Observe(d.Seconds())
}

// RecordCollatRatio updates the gauge tracking a position's last-known
// collateralization ratio.
func (m *EngineMetrics) RecordCollatRatio(lender string, bps uint32) {
	if m == nil {
		return
	}
	m.collatBps.WithLabelValues(label(lender)).Set(float64(bps))
}

// RecordPoolTotals updates the stability pool's aggregate gauges.
func (m *EngineMetrics) RecordPoolTotals(totalXAsset, totalCollateral float64) {
	if m == nil {
		return
	}
	m.poolTotal.WithLabelValues("xasset").Set(totalXAsset)
	m.poolTotal.WithLabelValues("collateral").Set(totalCollateral)
}

func label(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
