package engine

import (
	"math"
	"time"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// Scoring weights for queue selection
const (
	queueCrisisTypeScore = 10
	queueLanguageScore   = 5
)

// selectQueue scores every active queue for a crisis type and language and
// returns the winner's id. Busier queues are penalized by their current
// waiting count; ties go to the queue registered first. Falls back to the
// default queue when no queue is active.
//
// Caller must hold e.mu.
func (e *Engine) selectQueue(crisisType types.CrisisType, language string) string {
	bestID := ""
	bestScore := 0

	for _, q := range e.queues.InOrder() {
		if q.Status != types.QueueActive {
			continue
		}

		score := 0
		if q.Config.SupportsCrisisType(crisisType) {
			score += queueCrisisTypeScore
		}
		if language != "" && q.Config.SupportsLanguage(language) {
			score += queueLanguageScore
		}
		score -= len(e.waiting[q.Config.ID])

		if bestID == "" || score > bestScore {
			bestID = q.Config.ID
			bestScore = score
		}
	}

	if bestID != "" {
		return bestID
	}
	if e.defaultQueueID != "" {
		if _, ok := e.queues.Get(e.defaultQueueID); ok {
			return e.defaultQueueID
		}
	}
	if ids := e.queues.IDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// estimateWait predicts the wait for a call joining the queue right now:
// zero when an agent is free, the hard ceiling when the queue has no agents
// at all, otherwise waiting * averageHandleTime / agentsTotal rounded up to
// a whole second.
//
// Caller must hold e.mu.
func (e *Engine) estimateWait(queueID string) time.Duration {
	available, _, total := e.agents.CountByQueue(queueID)
	if available > 0 {
		return 0
	}
	if total == 0 {
		return maxEstimatedWait
	}

	avgHandle := defaultAvgHandleTime
	if c := e.countersFor(queueID); c.handleCount > 0 {
		avgHandle = c.handleSum / time.Duration(c.handleCount)
	}

	waiting := len(e.waiting[queueID])
	secs := math.Ceil(float64(waiting) / float64(total) * avgHandle.Seconds())
	return time.Duration(secs) * time.Second
}
