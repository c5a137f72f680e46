package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestScheduleAfterFires(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	var fired atomic.Int32
	s.ScheduleAfter(10*time.Millisecond, func() {
		fired.Add(1)
	})

	deadline := time.After(1 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("timer did not fire within 1s")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	if s.Pending() != 0 {
		t.Errorf("expected 0 pending after fire, got %d", s.Pending())
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	var fired atomic.Int32
	h := s.ScheduleAfter(50*time.Millisecond, func() {
		fired.Add(1)
	})

	if !s.Cancel(h) {
		t.Fatal("expected cancel to succeed on armed timer")
	}

	time.Sleep(100 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("cancelled timer still fired")
	}
}

func TestCancelAfterFireReturnsFalse(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	done := make(chan struct{})
	h := s.ScheduleAfter(0, func() { close(done) })

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("timer did not fire")
	}

	if s.Cancel(h) {
		t.Error("expected cancel to fail after timer fired")
	}
}

func TestScheduleAtPastFiresImmediately(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	done := make(chan struct{})
	s.ScheduleAt(time.Now().Add(-time.Minute), func() { close(done) })

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("past-dated timer did not fire immediately")
	}
}

func TestStopCancelsAll(t *testing.T) {
	s := New(zerolog.Nop())

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		s.ScheduleAfter(50*time.Millisecond, func() { fired.Add(1) })
	}
	if s.Pending() != 5 {
		t.Fatalf("expected 5 pending, got %d", s.Pending())
	}

	s.Stop()
	time.Sleep(100 * time.Millisecond)

	if fired.Load() != 0 {
		t.Errorf("expected no timers to fire after Stop, got %d", fired.Load())
	}
	if s.Pending() != 0 {
		t.Errorf("expected 0 pending after Stop, got %d", s.Pending())
	}
}
