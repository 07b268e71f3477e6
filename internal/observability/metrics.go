// Package observability exposes Prometheus metrics for the gateway.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the gateway's Prometheus collectors on a private registry
// so tests can run multiple instances without collisions.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	toolCalls   *prometheus.CounterVec
}

// NewMetrics builds and registers the gateway collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipyard",
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC requests dispatched, by method.",
		}, []string{"method"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipyard",
			Name:      "tool_calls_total",
			Help:      "Tool invocations, by tool name and outcome.",
		}, []string{"tool", "outcome"}),
	}
	reg.MustRegister(m.rpcRequests, m.toolCalls)
	return m
}

// ObserveRequest counts a dispatched JSON-RPC method.
func (m *Metrics) ObserveRequest(method string) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method).Inc()
}

// ObserveToolCall counts a tool invocation outcome ("ok" or the error kind).
func (m *Metrics) ObserveToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
