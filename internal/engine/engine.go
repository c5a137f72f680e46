package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/alerting"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/callback"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/metrics"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/registry"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/sched"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/storage"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

var (
	// ErrNotFound marks an unknown call, agent, queue or callback id
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks a call or agent operation rejected by the
	// state machine; state is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")
)

const (
	// defaultAvgHandleTime is assumed when a queue has no answer history yet
	defaultAvgHandleTime = 900 * time.Second

	// maxEstimatedWait is reported when a queue has no agents at all
	maxEstimatedWait = 3600 * time.Second

	// defaultWrapUpTime applies when the queue config leaves it unset
	defaultWrapUpTime = 120 * time.Second

	// occupancyAlertRatio of MaxQueueSize at which a queue_backup alert fires
	occupancyAlertRatio = 0.8
)

// queueCounters accumulates per-queue history used for statistics. Reset
// never happens; rates are lifetime figures for the dashboard.
type queueCounters struct {
	totalAnswered int
	answeredInSL  int
	abandoned     int
	waitSum       time.Duration
	handleSum     time.Duration
	handleCount   int
}

// agentDayCounters accumulates an agent's talk and hold time for one day,
// keyed by agentID + "|" + date. Feeds the daily-stats archive upserts.
type agentDayCounters struct {
	talkSum time.Duration
	holdSum time.Duration
}

// Engine is the hotline call intake and routing orchestrator. It owns every
// call state transition; a single mutex serializes mutating operations so
// that scoring, re-validation and commit happen in one critical section.
type Engine struct {
	mu sync.Mutex

	calls     map[string]*types.Call
	waiting   map[string][]*types.Call // queueID -> FIFO waiting list
	counters  map[string]*queueCounters
	agentDays map[string]*agentDayCounters

	queues *registry.QueueRegistry
	agents *registry.AgentRegistry

	scheduler *sched.Scheduler
	bus       *bus.Bus
	alerts    *alerting.Manager
	callbacks *callback.Manager
	store     storage.Store
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	// wrap-up auto-return timers, agentID -> handle
	wrapTimers map[string]sched.Handle

	defaultQueueID string
}

// Options configure an Engine
type Options struct {
	Queues    *registry.QueueRegistry
	Agents    *registry.AgentRegistry
	Scheduler *sched.Scheduler
	Bus       *bus.Bus
	Alerts    *alerting.Manager
	Callbacks *callback.Manager
	Store     storage.Store
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger

	// DefaultQueueID receives calls when no queue is active. Falls back to
	// the first registered queue when empty.
	DefaultQueueID string
}

// New creates an Engine
func New(opts Options) *Engine {
	if opts.Store == nil {
		opts.Store = storage.NewNoopStore()
	}
	if opts.Metrics != nil {
		// callback_due is published by the callback manager, not the engine
		opts.Bus.Subscribe(func(types.Event) {
			opts.Metrics.CallbackDue()
		}, types.EventCallbackDue)
	}
	return &Engine{
		calls:          make(map[string]*types.Call),
		waiting:        make(map[string][]*types.Call),
		counters:       make(map[string]*queueCounters),
		agentDays:      make(map[string]*agentDayCounters),
		queues:         opts.Queues,
		agents:         opts.Agents,
		scheduler:      opts.Scheduler,
		bus:            opts.Bus,
		alerts:         opts.Alerts,
		callbacks:      opts.Callbacks,
		store:          opts.Store,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		wrapTimers:     make(map[string]sched.Handle),
		defaultQueueID: opts.DefaultQueueID,
	}
}

// GetCall returns a copy of a call record
func (e *Engine) GetCall(id string) (types.Call, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, ok := e.calls[id]
	if !ok {
		return types.Call{}, ErrNotFound
	}
	return *call, nil
}

// ListCalls returns copies of all calls, optionally filtered by status
func (e *Engine) ListCalls(status types.CallStatus) []types.Call {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]types.Call, 0, len(e.calls))
	for _, call := range e.calls {
		if status != "" && call.Status != status {
			continue
		}
		out = append(out, *call)
	}
	return out
}

// countersFor returns (creating on demand) the counters for a queue
func (e *Engine) countersFor(queueID string) *queueCounters {
	c, ok := e.counters[queueID]
	if !ok {
		c = &queueCounters{}
		e.counters[queueID] = c
	}
	return c
}

// publish emits an event on the bus, stamping it with the current time
func (e *Engine) publish(eventType types.EventType, data interface{}) {
	e.bus.Publish(types.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	})
	if e.metrics != nil {
		e.metrics.EventPublished(string(eventType))
	}
}

// transition records a status change on the call's timeline and applies it
func (e *Engine) transition(call *types.Call, to types.CallStatus, detail string) {
	call.Timeline = append(call.Timeline, types.TimelineEntry{
		At:     time.Now(),
		From:   call.Status,
		To:     to,
		Detail: detail,
	})
	call.Status = to
}

// removeWaiting takes a call out of its queue's waiting list. Returns false
// if the call was not waiting.
func (e *Engine) removeWaiting(call *types.Call) bool {
	list := e.waiting[call.Queue.ID]
	for i, c := range list {
		if c.ID == call.ID {
			e.waiting[call.Queue.ID] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// recomputeQueueStats rebuilds a queue's statistics snapshot from the call
// store, counters and agent registry. Must be called after every mutation
// that could change them.
func (e *Engine) recomputeQueueStats(queueID string) {
	stats := types.QueueStats{}
	stats.CallsWaiting = len(e.waiting[queueID])

	now := time.Now()
	for _, c := range e.waiting[queueID] {
		if w := now.Sub(c.Timing.Queued); w > stats.LongestWait {
			stats.LongestWait = w
		}
	}

	for _, call := range e.calls {
		if call.Queue.ID != queueID {
			continue
		}
		switch call.Status {
		case types.CallStatusRinging, types.CallStatusActive, types.CallStatusOnHold:
			stats.CallsInProgress++
		}
	}

	c := e.countersFor(queueID)
	if c.totalAnswered > 0 {
		stats.AvgWait = c.waitSum / time.Duration(c.totalAnswered)
		stats.ServiceLevelMet = float64(c.answeredInSL) / float64(c.totalAnswered) * 100.0
	} else {
		// No answers yet: target considered met, matching the dashboard
		// convention of 100% before the first call.
		stats.ServiceLevelMet = 100.0
	}
	if offered := c.totalAnswered + c.abandoned; offered > 0 {
		stats.AbandonRate = float64(c.abandoned) / float64(offered) * 100.0
	}

	stats.AgentsAvailable, stats.AgentsOnCall, stats.AgentsTotal = e.agents.CountByQueue(queueID)

	if !e.queues.UpdateStats(queueID, stats) {
		return
	}

	if e.metrics != nil {
		e.metrics.SetQueueDepth(queueID, stats.CallsWaiting)
	}
}
