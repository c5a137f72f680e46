package alerting

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

func newTestManager(t *testing.T) (*Manager, *bus.Bus) {
	t.Helper()
	eventBus := bus.New(zerolog.Nop())
	t.Cleanup(eventBus.Close)
	return NewManager(eventBus, zerolog.Nop()), eventBus
}

func TestRaiseFillsDefaults(t *testing.T) {
	m, _ := newTestManager(t)

	alert := m.Raise(types.SupervisorAlert{
		Type:     types.AlertHighCrisis,
		Severity: types.SeverityCritical,
		Message:  "test",
	})

	if alert.ID == "" {
		t.Error("empty alert id")
	}
	if alert.Timestamp.IsZero() {
		t.Error("zero timestamp")
	}
	if alert.Acknowledged {
		t.Error("new alert already acknowledged")
	}

	got, ok := m.Get(alert.ID)
	if !ok || got.Message != "test" {
		t.Errorf("Get = %+v, %v", got, ok)
	}
}

func TestRaisePublishesEvent(t *testing.T) {
	m, eventBus := newTestManager(t)

	received := make(chan types.Event, 1)
	eventBus.Subscribe(func(ev types.Event) {
		received <- ev
	}, types.EventSupervisorAlert)

	m.Raise(types.SupervisorAlert{
		Type:     types.AlertAgentAssist,
		Severity: types.SeverityWarning,
		Message:  "help",
	})

	select {
	case ev := <-received:
		alert, ok := ev.Data.(types.SupervisorAlert)
		if !ok || alert.Message != "help" {
			t.Errorf("event data = %+v", ev.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for supervisor_alert event")
	}
}

func TestActiveOrdersBySeverityThenInsertion(t *testing.T) {
	m, _ := newTestManager(t)

	w1 := m.Raise(types.SupervisorAlert{Type: types.AlertQueueBackup, Severity: types.SeverityWarning, Message: "w1"})
	c1 := m.Raise(types.SupervisorAlert{Type: types.AlertHighCrisis, Severity: types.SeverityCritical, Message: "c1"})
	w2 := m.Raise(types.SupervisorAlert{Type: types.AlertAgentAssist, Severity: types.SeverityWarning, Message: "w2"})
	c2 := m.Raise(types.SupervisorAlert{Type: types.AlertHighCrisis, Severity: types.SeverityCritical, Message: "c2"})

	active := m.Active()
	want := []string{c1.ID, c2.ID, w1.ID, w2.ID}
	if len(active) != len(want) {
		t.Fatalf("active = %d alerts, want %d", len(active), len(want))
	}
	for i, id := range want {
		if active[i].ID != id {
			t.Errorf("active[%d] = %s (%s), want %s", i, active[i].ID, active[i].Message, id)
		}
	}
}

func TestAcknowledge(t *testing.T) {
	m, _ := newTestManager(t)
	alert := m.Raise(types.SupervisorAlert{Type: types.AlertHighCrisis, Severity: types.SeverityCritical})

	if !m.Acknowledge(alert.ID, "sup-1") {
		t.Fatal("first acknowledge failed")
	}
	if len(m.Active()) != 0 {
		t.Error("acknowledged alert still active")
	}

	// Second acknowledgement is a silent success keeping the first actor
	if !m.Acknowledge(alert.ID, "sup-2") {
		t.Error("second acknowledge should succeed silently")
	}
	got, _ := m.Get(alert.ID)
	if got.AcknowledgedBy != "sup-1" {
		t.Errorf("acknowledgedBy = %q, want sup-1", got.AcknowledgedBy)
	}

	if m.Acknowledge("nope", "sup-1") {
		t.Error("unknown alert acknowledged")
	}
}

func TestAllKeepsInsertionOrder(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.Raise(types.SupervisorAlert{Type: types.AlertQueueBackup, Severity: types.SeverityWarning})
	b := m.Raise(types.SupervisorAlert{Type: types.AlertHighCrisis, Severity: types.SeverityCritical})

	all := m.All()
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Errorf("All() order = %+v, want [%s %s]", all, a.ID, b.ID)
	}
}
