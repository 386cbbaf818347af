package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters and histograms for the booking conversation.
// All observer methods are safe on a nil receiver.
type BotMetrics struct {
	inboundTotal     *prometheus.CounterVec
	outcomeTotal     *prometheus.CounterVec
	outboundTotal    *prometheus.CounterVec
	collaboratorFail *prometheus.CounterVec
	handleLatency    *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation_bot",
			Subsystem: "webhook",
			Name:      "inbound_messages_total",
			Help:      "Inbound WhatsApp messages by provider and result",
		}, []string{"provider", "result"}),
		outcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation_bot",
			Subsystem: "dialogue",
			Name:      "outcomes_total",
			Help:      "Dialogue outcomes per handled message",
		}, []string{"outcome"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation_bot",
			Subsystem: "notifier",
			Name:      "outbound_total",
			Help:      "Outbound replies by provider and status",
		}, []string{"provider", "status"}),
		collaboratorFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation_bot",
			Subsystem: "dialogue",
			Name:      "collaborator_failures_total",
			Help:      "Swallowed notifier, calendar and classifier failures",
		}, []string{"collaborator"}),
		handleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reservation_bot",
			Subsystem: "dialogue",
			Name:      "handle_seconds",
			Help:      "Latency of handling one inbound message",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outcomeTotal, m.outboundTotal, m.collaboratorFail, m.handleLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(provider, result string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(provider, result).Inc()
}

func (m *BotMetrics) ObserveOutcome(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.outcomeTotal.WithLabelValues(outcome).Inc()
	m.handleLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *BotMetrics) ObserveOutbound(provider string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.outboundTotal.WithLabelValues(provider, status).Inc()
}

func (m *BotMetrics) ObserveCollaboratorFailure(collaborator string) {
	if m == nil {
		return
	}
	m.collaboratorFail.WithLabelValues(collaborator).Inc()
}
