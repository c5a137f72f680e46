package sched

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MaxDelay caps how far in the future a timer may be armed. Delays beyond it
// are clamped so a bad ScheduledFor cannot overflow the timer.
const MaxDelay = 365 * 24 * time.Hour

// Handle identifies an armed timer so it can be cancelled
type Handle uint64

// Scheduler arms one-shot timers and retains cancel handles for them.
// Callbacks run on their own goroutine; callers are responsible for locking.
type Scheduler struct {
	mu     sync.Mutex
	next   Handle
	timers map[Handle]*time.Timer
	logger zerolog.Logger
}

// New creates a Scheduler
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[Handle]*time.Timer),
		logger: logger,
	}
}

// ScheduleAfter arms a timer firing fn after d. Negative delays fire
// immediately; delays above MaxDelay are clamped.
func (s *Scheduler) ScheduleAfter(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	if d > MaxDelay {
		s.logger.Warn().Dur("delay", d).Msg("timer delay clamped to maximum")
		d = MaxDelay
	}

	s.mu.Lock()
	s.next++
	h := s.next
	s.timers[h] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, h)
		s.mu.Unlock()
		fn()
	})
	s.mu.Unlock()

	return h
}

// ScheduleAt arms a timer firing fn at t (immediately if t is in the past)
func (s *Scheduler) ScheduleAt(t time.Time, fn func()) Handle {
	return s.ScheduleAfter(time.Until(t), fn)
}

// Cancel stops the timer behind h. Returns false if the timer already fired
// or was cancelled before.
func (s *Scheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	timer, ok := s.timers[h]
	if ok {
		delete(s.timers, h)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	return timer.Stop()
}

// Pending returns the number of armed timers
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every armed timer
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, timer := range s.timers {
		timer.Stop()
		delete(s.timers, h)
	}
}
