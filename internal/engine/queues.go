package engine

import (
	"fmt"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// RegisterQueue adds or replaces a queue definition
func (e *Engine) RegisterQueue(cfg types.QueueConfig) (types.Queue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cfg.ID == "" {
		return types.Queue{}, fmt.Errorf("queue id required: %w", ErrInvalidTransition)
	}
	e.queues.Register(cfg)
	e.recomputeQueueStats(cfg.ID)

	e.logger.Info().
		Str("queue_id", cfg.ID).
		Str("name", cfg.Name).
		Int("priority", cfg.Priority).
		Msg("queue registered")

	q, _ := e.queues.Get(cfg.ID)
	return q, nil
}

// GetQueue returns one queue with its live statistics
func (e *Engine) GetQueue(queueID string) (types.Queue, error) {
	q, ok := e.queues.Get(queueID)
	if !ok {
		return types.Queue{}, fmt.Errorf("queue %s: %w", queueID, ErrNotFound)
	}
	return q, nil
}

// GetQueues returns all queues in registration order
func (e *Engine) GetQueues() []types.Queue {
	return e.queues.InOrder()
}

// SetQueueStatus changes a queue's operational state. Pausing or closing a
// queue redirects its waiting calls to the configured overflow queue; without
// one the calls stay put and are picked up when the queue reopens.
func (e *Engine) SetQueueStatus(queueID string, status types.QueueStatus) (types.Queue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, ok := e.queues.Get(queueID)
	if !ok {
		return types.Queue{}, fmt.Errorf("queue %s: %w", queueID, ErrNotFound)
	}
	if !e.queues.SetStatus(queueID, status) {
		return types.Queue{}, fmt.Errorf("queue %s: %w", queueID, ErrNotFound)
	}

	e.logger.Info().
		Str("queue_id", queueID).
		Str("from", string(q.Status)).
		Str("to", string(status)).
		Msg("queue status changed")

	switch status {
	case types.QueuePaused, types.QueueClosed, types.QueueOverflow:
		if q.Config.OverflowQueueID != "" {
			e.redirectWaiting(queueID, q.Config.OverflowQueueID)
		}
	case types.QueueActive:
		e.drainQueue(queueID)
	}

	updated, _ := e.queues.Get(queueID)
	return updated, nil
}

// redirectWaiting moves every waiting call from one queue to another and
// retries routing on the target.
func (e *Engine) redirectWaiting(fromID, toID string) {
	if _, ok := e.queues.Get(toID); !ok || fromID == toID {
		return
	}

	moved := append([]*types.Call(nil), e.waiting[fromID]...)
	if len(moved) == 0 {
		return
	}
	e.waiting[fromID] = nil

	for _, call := range moved {
		e.transition(call, types.CallStatusQueued, "redirected to "+toID)
		e.enqueue(call, toID)
	}
	e.recomputeQueueStats(fromID)

	e.logger.Info().
		Str("from_queue", fromID).
		Str("to_queue", toID).
		Int("calls", len(moved)).
		Msg("waiting calls redirected")

	e.drainQueue(toID)
}
