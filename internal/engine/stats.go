package engine

import (
	"fmt"
	"time"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// GetCallStatistics aggregates every call whose creation time falls inside
// the optional [from, to) range, plus the live per-queue snapshots.
func (e *Engine) GetCallStatistics(from, to *time.Time) types.CallStatistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := types.CallStatistics{
		From:          from,
		To:            to,
		ByStatus:      make(map[types.CallStatus]int),
		ByCrisisLevel: make(map[types.CrisisLevel]int),
		ByCrisisType:  make(map[types.CrisisType]int),
		ByChannel:     make(map[types.CallChannel]int),
		Queues:        make(map[string]types.QueueStats),
	}

	var waitSum, talkSum time.Duration
	var answered, abandoned int

	for _, call := range e.calls {
		if from != nil && call.Timing.Created.Before(*from) {
			continue
		}
		if to != nil && !call.Timing.Created.Before(*to) {
			continue
		}

		stats.TotalCalls++
		stats.ByStatus[call.Status]++
		stats.ByCrisisLevel[call.CrisisLevel]++
		stats.ByCrisisType[call.CrisisType]++
		stats.ByChannel[call.Channel]++
		if call.HasTag("escalated") {
			stats.EscalatedCalls++
		}

		if call.Timing.Answered != nil {
			answered++
			waitSum += call.Timing.WaitTime
			talkSum += call.Timing.TalkTime
		}
		if call.Status == types.CallStatusAbandoned {
			abandoned++
		}
	}

	if answered > 0 {
		stats.AvgWaitTime = waitSum / time.Duration(answered)
		stats.AvgTalkTime = talkSum / time.Duration(answered)
	}
	if offered := answered + abandoned; offered > 0 {
		stats.AbandonRate = float64(abandoned) / float64(offered) * 100.0
	}

	for _, q := range e.queues.InOrder() {
		stats.Queues[q.Config.ID] = q.Stats
	}

	return stats
}

// Subscribe registers an event listener, optionally filtered by event type.
// The returned id unsubscribes it.
func (e *Engine) Subscribe(fn func(types.Event), eventTypes ...types.EventType) string {
	return e.bus.Subscribe(fn, eventTypes...)
}

// Unsubscribe removes an event listener
func (e *Engine) Unsubscribe(id string) {
	e.bus.Unsubscribe(id)
}

// GetActiveAlerts returns unacknowledged supervisor alerts, most severe first
func (e *Engine) GetActiveAlerts() []types.SupervisorAlert {
	return e.alerts.Active()
}

// GetAllAlerts returns every alert raised, in insertion order
func (e *Engine) GetAllAlerts() []types.SupervisorAlert {
	return e.alerts.All()
}

// AcknowledgeAlert marks an alert as seen. Acknowledging twice is a silent
// success; an unknown id is an error.
func (e *Engine) AcknowledgeAlert(alertID, acknowledgedBy string) error {
	if !e.alerts.Acknowledge(alertID, acknowledgedBy) {
		return fmt.Errorf("alert %s: %w", alertID, ErrNotFound)
	}
	return nil
}
