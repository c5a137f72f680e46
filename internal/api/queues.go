package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// QueuesHandler exposes queue configuration and live stats over HTTP
type QueuesHandler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewQueuesHandler creates a new QueuesHandler
func NewQueuesHandler(eng *engine.Engine, logger zerolog.Logger) *QueuesHandler {
	return &QueuesHandler{engine: eng, logger: logger}
}

// Routes mounts the queue endpoints on a chi router
func (h *QueuesHandler) Routes(r chi.Router) {
	r.Post("/", h.Register)
	r.Get("/", h.List)
	r.Get("/{queueID}", h.Get)
	r.Put("/{queueID}/status", h.SetStatus)
}

// Register handles POST /api/queues
func (h *QueuesHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cfg types.QueueConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	queue, err := h.engine.RegisterQueue(cfg)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, queue)
}

// List handles GET /api/queues
func (h *QueuesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.GetQueues())
}

// Get handles GET /api/queues/{queueID}
func (h *QueuesHandler) Get(w http.ResponseWriter, r *http.Request) {
	queue, err := h.engine.GetQueue(chi.URLParam(r, "queueID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, queue)
}

// SetStatus handles PUT /api/queues/{queueID}/status
func (h *QueuesHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status types.QueueStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	queue, err := h.engine.SetQueueStatus(chi.URLParam(r, "queueID"), req.Status)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, queue)
}
