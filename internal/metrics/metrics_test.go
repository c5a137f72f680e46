package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CallReceived("voice", "high")
	m.CallReceived("voice", "high")
	m.CallReceived("sms", "low")

	if got := testutil.ToFloat64(m.callsReceived.WithLabelValues("voice", "high")); got != 2 {
		t.Errorf("calls_received{voice,high} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.callsReceived.WithLabelValues("sms", "low")); got != 1 {
		t.Errorf("calls_received{sms,low} = %v, want 1", got)
	}

	m.CallRouted(0.001)
	if got := testutil.ToFloat64(m.callsRouted); got != 1 {
		t.Errorf("calls_routed = %v, want 1", got)
	}

	m.CallCompleted("resolved")
	m.CallAbandoned()
	m.CallEscalated()
	m.AlertRaised("high_crisis", "critical")

	if got := testutil.ToFloat64(m.callsCompleted.WithLabelValues("resolved")); got != 1 {
		t.Errorf("calls_completed{resolved} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.escalations); got != 1 {
		t.Errorf("escalations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.alertsRaised.WithLabelValues("high_crisis", "critical")); got != 1 {
		t.Errorf("alerts{high_crisis,critical} = %v, want 1", got)
	}
}

func TestQueueDepthGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetQueueDepth("general", 3)
	if got := testutil.ToFloat64(m.queueDepth.WithLabelValues("general")); got != 3 {
		t.Errorf("queue_waiting{general} = %v, want 3", got)
	}

	m.SetQueueDepth("general", 0)
	if got := testutil.ToFloat64(m.queueDepth.WithLabelValues("general")); got != 0 {
		t.Errorf("queue_waiting{general} = %v, want 0", got)
	}
}

func TestDoubleRegistrationIsolation(t *testing.T) {
	// Two Metrics on separate registries must not collide
	m1 := New(prometheus.NewRegistry())
	m2 := New(prometheus.NewRegistry())

	m1.CallAbandoned()
	if got := testutil.ToFloat64(m2.callsAbandoned); got != 0 {
		t.Errorf("m2 abandoned = %v, want 0", got)
	}
}
