package kernel

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the dispatch/reply counters kerneld's serve command exposes
// at /metrics, generalizing the teacher's indirect prometheus dependency
// (pulled in transitively by its grpc/libp2p stack, never wired to its own
// counters) into an actually-used registry here.
type Metrics struct {
	DispatchTotal   *prometheus.CounterVec
	PendingReplies  prometheus.Gauge
	FeesCollected   *prometheus.CounterVec
	registry        *prometheus.Registry
}

// NewMetrics builds a fresh, unregistered-with-default-registry Metrics
// instance — callers that want these served must register m.registry (or
// the individual collectors) with their own exporter.
func NewMetrics() *Metrics {
	m := &Metrics{
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "amp_kernel_dispatch_total",
			Help: "Count of kernel dispatches by outcome.",
		}, []string{"outcome"}),
		PendingReplies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "amp_kernel_pending_forward_replies",
			Help: "Number of ForwardReplyState entries currently outstanding.",
		}),
		FeesCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "amp_kernel_fees_collected_total",
			Help: "Total fee amount collected by asset denom.",
		}, []string{"denom"}),
	}
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.DispatchTotal, m.PendingReplies, m.FeesCollected)
	return m
}

// Registry exposes the collector registry for an HTTP /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observeDispatch(outcome string) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(outcome).Inc()
}
