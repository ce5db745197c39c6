package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItinerariesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nomadai_itineraries_generated_total",
		Help: "Itineraries built, by text source (llm or fallback).",
	}, []string{"source"})

	CostClamped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nomadai_cost_clamped_total",
		Help: "Reconciled totals that had to be clamped to the budget.",
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nomadai_llm_request_duration_seconds",
		Help:    "Latency of language-model completions.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"kind"})

	StoreEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nomadai_store_evictions_total",
		Help: "Itineraries evicted from the memory store to stay under capacity.",
	})

	ChatReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nomadai_chat_replies_total",
		Help: "Follow-up chat replies, by outcome.",
	}, []string{"outcome"})
)
