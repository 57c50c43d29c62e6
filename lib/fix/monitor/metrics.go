package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solarflux/fixengine/lib/fix/session"
)

// Metrics holds the Prometheus collectors SPEC_FULL.md §4.7 names,
// grounded on
// _examples/Aidin1998-finalex/internal/infrastructure/ws/hub.go's
// initMetrics. Each Hub owns its own prometheus.Registry rather than
// registering into the global DefaultRegisterer, so multiple Hubs (one
// per test, or one per acceptor in a multi-session program) can coexist
// without a duplicate-registration panic.
type Metrics struct {
	registry *prometheus.Registry

	sessionState     *prometheus.GaugeVec
	messagesSent     *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	sequenceGaps     *prometheus.CounterVec
	resendRequests   *prometheus.CounterVec
}

// NewMetrics constructs and registers the collector set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		sessionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fix_session_state",
			Help: "Current FSM state of a FIX session, one gauge value per session/state pair (1 = current state, 0 otherwise).",
		}, []string{"session", "state"}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_messages_sent_total",
			Help: "Total messages sent by a FIX session, by MsgType.",
		}, []string{"session", "msg_type"}),
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_messages_received_total",
			Help: "Total messages received by a FIX session, by MsgType.",
		}, []string{"session", "msg_type"}),
		sequenceGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_sequence_gaps_total",
			Help: "Total incoming sequence-number gaps detected per session.",
		}, []string{"session"}),
		resendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_resend_requests_total",
			Help: "Total ResendRequest messages processed per session.",
		}, []string{"session"}),
	}

	registry.MustRegister(m.sessionState, m.messagesSent, m.messagesReceived, m.sequenceGaps, m.resendRequests)
	return m
}

// Handler exposes the registry's metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetSessionState zeroes every other known state's gauge for this
// session and sets the current one to 1, so a dashboard's "current
// state" query is a simple equals-1 filter rather than a max-by-time.
func (m *Metrics) SetSessionState(id session.Identity, state session.State) {
	key := id.Key()
	for s := session.StateDisconnected; s <= session.StateClosed; s++ {
		name := session.Name(s)
		if name == "UNKNOWN" {
			continue
		}
		value := 0.0
		if s == state {
			value = 1
		}
		m.sessionState.WithLabelValues(key, name).Set(value)
	}
}

func (m *Metrics) IncMessagesSent(id session.Identity, msgType string) {
	m.messagesSent.WithLabelValues(id.Key(), msgType).Inc()
}

func (m *Metrics) IncMessagesReceived(id session.Identity, msgType string) {
	m.messagesReceived.WithLabelValues(id.Key(), msgType).Inc()
}

func (m *Metrics) IncSequenceGaps(id session.Identity) {
	m.sequenceGaps.WithLabelValues(id.Key()).Inc()
}

func (m *Metrics) IncResendRequests(id session.Identity) {
	m.resendRequests.WithLabelValues(id.Key()).Inc()
}
