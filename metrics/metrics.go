// Package metrics exposes Prometheus counters for chat traffic and content reloads.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"srhbot/engine"
)

const namespace = "srhbot"

// Collector owns a private registry so tests and multiple servers do not
// collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	responsesTotal  *prometheus.CounterVec
	crisisTotal     *prometheus.CounterVec
	intentsTotal    *prometheus.CounterVec
	responderTotal  *prometheus.CounterVec
	reloadsTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates and registers all metrics, plus the Go runtime and
// process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		responsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Chat responses by response type.",
		}, []string{"type"}),
		crisisTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crisis_total",
			Help:      "Crisis responses by severity.",
		}, []string{"severity"}),
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Classified intents of non-crisis messages.",
		}, []string{"intent"}),
		responderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responder_calls_total",
			Help:      "External responder calls by result.",
		}, []string{"result"}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_reloads_total",
			Help:      "Content reloads by result.",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	c.registry.MustRegister(
		c.responsesTotal,
		c.crisisTotal,
		c.intentsTotal,
		c.responderTotal,
		c.reloadsTotal,
		c.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveResponse records one engine response.
func (c *Collector) ObserveResponse(resp engine.Response) {
	c.responsesTotal.WithLabelValues(string(resp.Type)).Inc()
	if resp.Type == engine.ResponseCrisis {
		c.crisisTotal.WithLabelValues(string(resp.Severity)).Inc()
		return
	}
	if resp.Intent != "" {
		c.intentsTotal.WithLabelValues(string(resp.Intent)).Inc()
	}
}

// ObserveResponder records an external responder call; err == nil is a success.
func (c *Collector) ObserveResponder(err error) {
	c.responderTotal.WithLabelValues(result(err)).Inc()
}

// ObserveReload records a content reload; it matches content.WithReloadHook.
func (c *Collector) ObserveReload(err error) {
	c.reloadsTotal.WithLabelValues(result(err)).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
