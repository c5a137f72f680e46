package storage

import "github.com/harshrana14-fi/alert-aid-sub002/internal/types"

// Store archives finished calls and daily agent aggregates. The engine works
// entirely in memory; a Store failure never affects call routing.
type Store interface {
	SaveCallRecord(record types.CallRecord) error
	SaveAgentDailyStats(stats types.AgentDailyStats) error
	GetCallRecords(dateKey string) ([]types.CallRecord, error)
	GetAgentDailyStats(agentID string) ([]types.AgentDailyStats, error)
	TruncateAll() error
}

// NoopStore is a no-op implementation when the archive is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveCallRecord(_ types.CallRecord) error                      { return nil }
func (s *NoopStore) SaveAgentDailyStats(_ types.AgentDailyStats) error            { return nil }
func (s *NoopStore) GetCallRecords(_ string) ([]types.CallRecord, error)          { return nil, nil }
func (s *NoopStore) GetAgentDailyStats(_ string) ([]types.AgentDailyStats, error) { return nil, nil }
func (s *NoopStore) TruncateAll() error                                           { return nil }
