package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Metrics holds the service counters. One instance per process, registered on
// its own registry so tests can construct throwaway instances.
type Metrics struct {
	registry *prometheus.Registry

	ProviderAttempts *prometheus.CounterVec
	ProviderFailures *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheStaleServes prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		ProviderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_provider_attempts_total",
			Help: "Generation attempts per provider.",
		}, []string{"provider"}),
		ProviderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_provider_failures_total",
			Help: "Failed generation attempts per provider.",
		}, []string{"provider"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Fresh cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses and expired entries.",
		}),
		CacheStaleServes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_stale_serves_total",
			Help: "Stale entries served because regeneration failed.",
		}),
	}

	reg.MustRegister(m.ProviderAttempts, m.ProviderFailures, m.CacheHits, m.CacheMisses, m.CacheStaleServes)
	return m
}

// Handler exposes the registry for a GET /metrics route.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
