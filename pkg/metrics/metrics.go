package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider outcomes recorded by the gateways.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloom_provider_calls_total",
			Help: "Total external provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloom_provider_latency_seconds",
			Help:    "External provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ChatbotAnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloom_chatbot_answers_total",
			Help: "Total chatbot answers by resolution tier",
		},
		[]string{"tier"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloom_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	ReadingCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloom_reading_cache_total",
			Help: "Vegetation reading cache lookups by result",
		},
		[]string{"result"},
	)
)
