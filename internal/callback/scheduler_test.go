package callback

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/sched"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

func newTestManager(t *testing.T) (*Manager, *bus.Bus) {
	t.Helper()
	logger := zerolog.Nop()

	scheduler := sched.New(logger)
	t.Cleanup(scheduler.Stop)

	eventBus := bus.New(logger)
	t.Cleanup(eventBus.Close)

	return NewManager(scheduler, eventBus, logger), eventBus
}

func TestScheduleFillsDefaults(t *testing.T) {
	m, _ := newTestManager(t)

	cb := m.Schedule(types.ScheduledCallback{
		Phone:        "+15550001",
		ScheduledFor: time.Now().Add(time.Hour),
	})

	if cb.ID == "" {
		t.Error("empty callback id")
	}
	if cb.CreatedAt.IsZero() {
		t.Error("zero createdAt")
	}
	if cb.Status != types.CallbackScheduled {
		t.Errorf("status = %s, want scheduled", cb.Status)
	}

	got, ok := m.Get(cb.ID)
	if !ok || got.Phone != "+15550001" {
		t.Errorf("Get = %+v, %v", got, ok)
	}
}

func TestDueTimerPublishesEvent(t *testing.T) {
	m, eventBus := newTestManager(t)

	received := make(chan types.Event, 1)
	eventBus.Subscribe(func(ev types.Event) {
		received <- ev
	}, types.EventCallbackDue)

	cb := m.Schedule(types.ScheduledCallback{
		Phone:        "+15550002",
		ScheduledFor: time.Now().Add(20 * time.Millisecond),
	})

	select {
	case ev := <-received:
		due, ok := ev.Data.(types.CallbackDueEvent)
		if !ok || due.CallbackID != cb.ID {
			t.Errorf("event data = %+v, want due event for %s", ev.Data, cb.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for callback_due event")
	}
}

func TestCancelSuppressesDueEvent(t *testing.T) {
	m, eventBus := newTestManager(t)

	received := make(chan types.Event, 1)
	eventBus.Subscribe(func(ev types.Event) {
		received <- ev
	}, types.EventCallbackDue)

	cb := m.Schedule(types.ScheduledCallback{
		Phone:        "+15550003",
		ScheduledFor: time.Now().Add(30 * time.Millisecond),
	})

	found, cancelled := m.Cancel(cb.ID)
	if !found || !cancelled {
		t.Fatalf("Cancel = %v, %v, want true, true", found, cancelled)
	}

	select {
	case ev := <-received:
		t.Errorf("cancelled callback still fired: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	got, _ := m.Get(cb.ID)
	if got.Status != types.CallbackCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}
}

func TestCancelNonScheduled(t *testing.T) {
	m, _ := newTestManager(t)

	cb := m.Schedule(types.ScheduledCallback{
		Phone:        "+15550004",
		ScheduledFor: time.Now().Add(time.Hour),
	})
	m.RecordAttempt(cb.ID, types.CallbackAttempt{At: time.Now(), Result: "dialed"}, types.CallbackAttempted)

	found, cancelled := m.Cancel(cb.ID)
	if !found || cancelled {
		t.Errorf("Cancel attempted callback = %v, %v, want true, false", found, cancelled)
	}

	found, _ = m.Cancel("nope")
	if found {
		t.Error("unknown callback reported found")
	}
}

func TestRecordAttempt(t *testing.T) {
	m, _ := newTestManager(t)

	cb := m.Schedule(types.ScheduledCallback{
		Phone:        "+15550005",
		ScheduledFor: time.Now().Add(time.Hour),
	})

	ok := m.RecordAttempt(cb.ID, types.CallbackAttempt{
		At:      time.Now(),
		AgentID: "a1",
		CallID:  "c1",
		Result:  "dialed",
	}, types.CallbackAttempted)
	if !ok {
		t.Fatal("RecordAttempt failed")
	}

	got, _ := m.Get(cb.ID)
	if got.Status != types.CallbackAttempted {
		t.Errorf("status = %s, want attempted", got.Status)
	}
	if len(got.Attempts) != 1 || got.Attempts[0].AgentID != "a1" {
		t.Errorf("attempts = %+v", got.Attempts)
	}

	if m.RecordAttempt("nope", types.CallbackAttempt{}, types.CallbackFailed) {
		t.Error("RecordAttempt on unknown id succeeded")
	}
}

func TestListFilters(t *testing.T) {
	m, _ := newTestManager(t)

	base := time.Now().Add(time.Hour)
	early := m.Schedule(types.ScheduledCallback{Phone: "+1", ScheduledFor: base})
	late := m.Schedule(types.ScheduledCallback{Phone: "+2", ScheduledFor: base.Add(2 * time.Hour)})
	m.RecordAttempt(late.ID, types.CallbackAttempt{At: time.Now(), Result: "dialed"}, types.CallbackAttempted)

	if got := m.List(Filter{}); len(got) != 2 {
		t.Errorf("unfiltered = %d, want 2", len(got))
	}
	if got := m.List(Filter{Status: types.CallbackScheduled}); len(got) != 1 || got[0].ID != early.ID {
		t.Errorf("by status = %+v, want [%s]", got, early.ID)
	}
	if got := m.List(Filter{Phone: "+2"}); len(got) != 1 || got[0].ID != late.ID {
		t.Errorf("by phone = %+v, want [%s]", got, late.ID)
	}

	cut := base.Add(time.Hour)
	if got := m.List(Filter{After: &cut}); len(got) != 1 || got[0].ID != late.ID {
		t.Errorf("after = %+v, want [%s]", got, late.ID)
	}
	if got := m.List(Filter{Before: &cut}); len(got) != 1 || got[0].ID != early.ID {
		t.Errorf("before = %+v, want [%s]", got, early.ID)
	}
}
