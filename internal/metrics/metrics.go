// Package metrics holds the Prometheus collectors for the reasoning engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine metrics, registered with the default Prometheus registry.
var (
	// Chain metrics
	ChainsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_chains_total",
			Help: "Total number of reasoning chains by outcome",
		},
		[]string{"outcome"}, // converged | max_steps | aborted | cancelled
	)

	ChainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reasoner_chain_duration_seconds",
			Help:    "Wall time of a reasoning chain from initialization to finalization",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)

	ConvergenceScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reasoner_convergence_score",
			Help:    "Final overall convergence score of finalized chains",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// Step metrics
	StepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_steps_total",
			Help: "Total number of strategy executions by result",
		},
		[]string{"strategy", "status"}, // status: ok | failed
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reasoner_step_duration_seconds",
			Help:    "Strategy execution latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"strategy"},
	)

	// Cognitive state metrics
	CognitiveStates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reasoner_cognitive_states",
			Help: "Number of cognitive superposition states currently held",
		},
	)

	CognitiveEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_cognitive_evictions_total",
			Help: "Cognitive states evicted from the bounded store",
		},
		[]string{"reason"}, // capacity | ttl
	)

	// Knowledge transport metrics
	KnowledgeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_knowledge_requests_total",
			Help: "Remote knowledge service calls by method and result",
		},
		[]string{"method", "status"},
	)
)
