package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OWMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gometeo_owm_requests_total",
			Help: "OpenWeatherMap requests by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	OWMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gometeo_owm_request_duration_seconds",
			Help:    "OpenWeatherMap request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gometeo_searches_total",
			Help: "Dashboard searches by outcome (ok, error, superseded).",
		},
		[]string{"outcome"},
	)

	FavoritesWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gometeo_favorites_writes_total",
			Help: "Favorites store writes by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(OWMRequests, OWMLatency, Searches, FavoritesWrites)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
