package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CatalogFetches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "liverapp_catalog_fetches_total",
		Help: "Total catalog fetch attempts",
	})
	CatalogFetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "liverapp_catalog_fetch_errors_total",
		Help: "Total catalog fetch failures by fault class",
	}, []string{"fault"})
	CatalogFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "liverapp_catalog_fetch_duration_seconds",
		Help:    "Catalog fetch duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	ReviewCountHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "liverapp_review_count_cache_hits_total",
		Help: "Review count lookups served from memory",
	})
	ReviewCountMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "liverapp_review_count_cache_misses_total",
		Help: "Review count lookups that issued a stats request",
	})
	ReviewSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "liverapp_review_submissions_total",
		Help: "Review submission attempts by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		CatalogFetches,
		CatalogFetchErrors,
		CatalogFetchDuration,
		ReviewCountHits,
		ReviewCountMisses,
		ReviewSubmissions,
	)
}

// StartServer exposes /metrics on addr. Empty addr disables the listener.
func StartServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
}
