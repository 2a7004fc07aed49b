// Package metrics exposes the service's prometheus instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry and the metric vectors of the service.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RiskClassifications *prometheus.CounterVec
	CrisisInterventions *prometheus.CounterVec
	ContentRejections   *prometheus.CounterVec
}

// NewCollector creates the collector and registers every vector
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RiskClassifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_classifications_total",
			Help:      "Classified interactions by channel and risk level",
		}, []string{"channel", "level"}),
		CrisisInterventions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crisis_interventions_total",
			Help:      "Crisis workflow runs by outcome",
		}, []string{"outcome"}),
		ContentRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_rejections_total",
			Help:      "Forum submissions blocked by the content filter",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.RiskClassifications,
		c.CrisisInterventions,
		c.ContentRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRisk records one classification; channel is "chat", "post" or "reply"
func (c *Collector) ObserveRisk(channel, level string) {
	if c == nil {
		return
	}
	c.RiskClassifications.WithLabelValues(channel, level).Inc()
}

// ObserveCrisis records a crisis workflow outcome: "booked", "no_slot" or "failed"
func (c *Collector) ObserveCrisis(outcome string) {
	if c == nil {
		return
	}
	c.CrisisInterventions.WithLabelValues(outcome).Inc()
}

// ObserveRejection records a filtered submission; kind is "post" or "reply"
func (c *Collector) ObserveRejection(kind string) {
	if c == nil {
		return
	}
	c.ContentRejections.WithLabelValues(kind).Inc()
}
