// Package metrics exposes Prometheus instruments for verification.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "factlens"

var (
	// verifications counts completed verifications.
	// Labels: verdict (True, False, Partly True, Unverifiable)
	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Completed verifications by verdict label",
	}, []string{"verdict"})

	// degradations counts fallbacks taken instead of the primary path.
	// Labels: component (extract, synthesize, pipeline), reason
	degradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degradations_total",
		Help:      "Degradation paths taken by component and reason",
	}, []string{"component", "reason"})

	// backendCalls counts reasoning backend calls.
	// Labels: provider, outcome (ok, cached, or a failure kind)
	backendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "calls_total",
		Help:      "Reasoning backend calls by provider and outcome",
	}, []string{"provider", "outcome"})

	// backendLatency measures uncached backend call latency.
	// Labels: provider
	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "latency_seconds",
		Help:      "Reasoning backend call latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
	}, []string{"provider"})

	// stageLatency measures each pipeline stage.
	// Labels: stage (extract, link, retrieve, synthesize)
	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stage_seconds",
		Help:      "Pipeline stage latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 3, 5},
	}, []string{"stage"})

	// evidenceItems tracks how many facts each verification retrieved
	evidenceItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "evidence_items",
		Help:      "Evidence items retrieved per verification",
		Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
	})
)

// RecordVerification counts a finished verification
func RecordVerification(verdict string) {
	verifications.WithLabelValues(verdict).Inc()
}

// RecordDegradation counts a fallback taken by component
func RecordDegradation(component, reason string) {
	degradations.WithLabelValues(component, reason).Inc()
}

// RecordBackendCall counts a backend call and, for uncached calls, its latency
func RecordBackendCall(provider, outcome string, d time.Duration) {
	backendCalls.WithLabelValues(provider, outcome).Inc()
	if outcome != "cached" {
		backendLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// ObserveStage records how long a pipeline stage took
func ObserveStage(stage string, d time.Duration) {
	stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveEvidence records the number of evidence items retrieved
func ObserveEvidence(n int) {
	evidenceItems.Observe(float64(n))
}
