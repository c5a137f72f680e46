package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/storage"
)

// StatsHandler exposes aggregate statistics and the archive history
type StatsHandler struct {
	engine *engine.Engine
	store  storage.Store
	logger zerolog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(eng *engine.Engine, store storage.Store, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{engine: eng, store: store, logger: logger}
}

// Routes mounts the statistics endpoints on a chi router
func (h *StatsHandler) Routes(r chi.Router) {
	r.Get("/calls", h.CallStatistics)
	r.Get("/history/calls", h.CallHistory)
	r.Get("/history/agents/{agentID}", h.AgentHistory)
}

// CallStatistics handles GET /api/stats/calls?from=...&to=... (RFC3339)
func (h *StatsHandler) CallStatistics(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid from timestamp")
			return
		}
		from = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid to timestamp")
			return
		}
		to = &t
	}

	respondJSON(w, http.StatusOK, h.engine.GetCallStatistics(from, to))
}

// CallHistory handles GET /api/stats/history/calls?date=YYYY-MM-DD
func (h *StatsHandler) CallHistory(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	records, err := h.store.GetCallRecords(date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to query call records")
		respondError(w, http.StatusInternalServerError, "failed to query call records")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// AgentHistory handles GET /api/stats/history/agents/{agentID}
func (h *StatsHandler) AgentHistory(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	stats, err := h.store.GetAgentDailyStats(agentID)
	if err != nil {
		h.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to query agent daily stats")
		respondError(w, http.StatusInternalServerError, "failed to query agent history")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
