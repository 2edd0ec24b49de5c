// Package metrics exposes the planner's Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seatplan"

// Collectors groups the planner metrics registered on one registry.
type Collectors struct {
	autoAssignRuns  prometheus.Counter
	unseatedPeople  prometheus.Histogram
	storeOperations *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		autoAssignRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_assign_total",
			Help:      "Total auto-assignment runs",
		}),
		unseatedPeople: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unseated_people",
			Help:      "Present people left without a seat per auto-assignment run",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		storeOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Document store loads and saves by result",
		}, []string{"operation", "result"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code",
		}, []string{"method", "status"}),
	}
}

// ObserveAutoAssign records one auto-assignment run.
func (c *Collectors) ObserveAutoAssign(unseated int) {
	c.autoAssignRuns.Inc()
	c.unseatedPeople.Observe(float64(unseated))
}

// ObserveStore records a store operation ("load" or "save").
func (c *Collectors) ObserveStore(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.storeOperations.WithLabelValues(operation, result).Inc()
}

// ObserveHTTP records a completed HTTP request.
func (c *Collectors) ObserveHTTP(method string, status int) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
