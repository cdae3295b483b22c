package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are optional; a nil *Metrics disables collection so tests can
// run a bare coordinator.
type Metrics struct {
	Events          *prometheus.CounterVec
	SessionsCreated prometheus.Counter
	RelayFailures   *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	PresentPeers    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callsig",
			Name:      "events_total",
			Help:      "Inbound signal events by type.",
		}, []string{"type"}),
		SessionsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "callsig",
			Name:      "sessions_created_total",
			Help:      "Call sessions created.",
		}),
		RelayFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callsig",
			Name:      "relay_failures_total",
			Help:      "Failed media-relay control calls by operation.",
		}, []string{"op"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "callsig",
			Name:      "active_sessions",
			Help:      "Call sessions currently in the table.",
		}),
		PresentPeers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "callsig",
			Name:      "present_peers",
			Help:      "Identities currently registered.",
		}),
	}
}

func (m *Metrics) event(t string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(t).Inc()
}

func (m *Metrics) sessionCreated() {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
}

func (m *Metrics) relayFailure(op string) {
	if m == nil {
		return
	}
	m.RelayFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) gauges(sessions, peers int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(sessions))
	m.PresentPeers.Set(float64(peers))
}
