package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the hotline engine
type Metrics struct {
	callsReceived   *prometheus.CounterVec
	callsRouted     prometheus.Counter
	callsCompleted  *prometheus.CounterVec
	callsAbandoned  prometheus.Counter
	escalations     prometheus.Counter
	queueDepth      *prometheus.GaugeVec
	routingDuration prometheus.Histogram
	eventsPublished *prometheus.CounterVec
	callbacksFired  prometheus.Counter
	alertsRaised    *prometheus.CounterVec
}

// New registers the hotline collectors with reg and returns them. Tests pass
// a fresh prometheus.NewRegistry to avoid double registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		callsReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotline_calls_received_total",
				Help: "Total calls received, by channel and crisis level",
			},
			[]string{"channel", "crisis_level"},
		),
		callsRouted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hotline_calls_routed_total",
				Help: "Total calls successfully assigned to an agent",
			},
		),
		callsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotline_calls_completed_total",
				Help: "Total calls completed, by disposition code",
			},
			[]string{"disposition"},
		),
		callsAbandoned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hotline_calls_abandoned_total",
				Help: "Total calls abandoned while waiting or ringing",
			},
		),
		escalations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hotline_escalations_total",
				Help: "Total calls escalated to critical",
			},
		),
		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hotline_queue_waiting",
				Help: "Calls currently waiting, by queue",
			},
			[]string{"queue"},
		),
		routingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hotline_routing_duration_seconds",
				Help:    "Time spent selecting and binding an agent",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotline_events_published_total",
				Help: "Events published on the bus, by type",
			},
			[]string{"type"},
		),
		callbacksFired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hotline_callbacks_due_total",
				Help: "Scheduled callbacks that reached their due time",
			},
		),
		alertsRaised: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotline_supervisor_alerts_total",
				Help: "Supervisor alerts raised, by type and severity",
			},
			[]string{"type", "severity"},
		),
	}

	reg.MustRegister(
		m.callsReceived,
		m.callsRouted,
		m.callsCompleted,
		m.callsAbandoned,
		m.escalations,
		m.queueDepth,
		m.routingDuration,
		m.eventsPublished,
		m.callbacksFired,
		m.alertsRaised,
	)

	return m
}

func (m *Metrics) CallReceived(channel, crisisLevel string) {
	m.callsReceived.WithLabelValues(channel, crisisLevel).Inc()
}

func (m *Metrics) CallRouted(seconds float64) {
	m.callsRouted.Inc()
	m.routingDuration.Observe(seconds)
}

func (m *Metrics) CallCompleted(disposition string) {
	m.callsCompleted.WithLabelValues(disposition).Inc()
}

func (m *Metrics) CallAbandoned() {
	m.callsAbandoned.Inc()
}

func (m *Metrics) CallEscalated() {
	m.escalations.Inc()
}

func (m *Metrics) SetQueueDepth(queueID string, waiting int) {
	m.queueDepth.WithLabelValues(queueID).Set(float64(waiting))
}

func (m *Metrics) EventPublished(eventType string) {
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) CallbackDue() {
	m.callbacksFired.Inc()
}

func (m *Metrics) AlertRaised(alertType, severity string) {
	m.alertsRaised.WithLabelValues(alertType, severity).Inc()
}
