// Package metrics holds the Prometheus collectors of the service and the
// registry they are exposed from.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry every collector of the service is registered in.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		HTTPRequests, HTTPDuration,
		OwnerLookups, CodeCollisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// HTTPRequests counts handled requests by method, route pattern and status.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nepremicnine_http_requests_total",
		Help: "HTTP requests handled, by method, route and status code.",
	},
	[]string{"method", "route", "status"},
)

// HTTPDuration observes request latency by method and route pattern.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "nepremicnine_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// OwnerLookups counts owner-name enrichment lookups.
var OwnerLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nepremicnine_owner_lookups_total",
		Help: "Owner lookups made while enriching properties.",
	},
	[]string{"result"}, // found | missing
)

// CodeCollisions counts generated internal codes that were already taken.
var CodeCollisions = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "nepremicnine_code_collisions_total",
		Help: "Generated internal codes rejected as duplicates.",
	},
)

// Owner lookup results.
const (
	LookupFound   = "found"
	LookupMissing = "missing"
)

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
