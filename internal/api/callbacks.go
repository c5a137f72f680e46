package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/callback"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// CallbacksHandler exposes scheduled callbacks over HTTP
type CallbacksHandler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewCallbacksHandler creates a new CallbacksHandler
func NewCallbacksHandler(eng *engine.Engine, logger zerolog.Logger) *CallbacksHandler {
	return &CallbacksHandler{engine: eng, logger: logger}
}

// Routes mounts the callback endpoints on a chi router
func (h *CallbacksHandler) Routes(r chi.Router) {
	r.Post("/", h.Schedule)
	r.Get("/", h.List)
	r.Get("/{callbackID}", h.Get)
	r.Post("/{callbackID}/execute", h.Execute)
	r.Post("/{callbackID}/complete", h.Complete)
	r.Delete("/{callbackID}", h.Cancel)
}

// Schedule handles POST /api/callbacks
func (h *CallbacksHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var cb types.ScheduledCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scheduled, err := h.engine.ScheduleCallback(cb)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, scheduled)
}

// List handles GET /api/callbacks?status=scheduled&phone=+1555&after=...&before=...
func (h *CallbacksHandler) List(w http.ResponseWriter, r *http.Request) {
	f := callback.Filter{
		Status: types.CallbackStatus(r.URL.Query().Get("status")),
		Phone:  r.URL.Query().Get("phone"),
	}
	if raw := r.URL.Query().Get("after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid after timestamp")
			return
		}
		f.After = &t
	}
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid before timestamp")
			return
		}
		f.Before = &t
	}

	respondJSON(w, http.StatusOK, h.engine.GetScheduledCallbacks(f))
}

// Get handles GET /api/callbacks/{callbackID}
func (h *CallbacksHandler) Get(w http.ResponseWriter, r *http.Request) {
	cb, err := h.engine.GetCallback(chi.URLParam(r, "callbackID"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cb)
}

// Execute handles POST /api/callbacks/{callbackID}/execute
func (h *CallbacksHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID string `json:"agentId"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	call, err := h.engine.ExecuteCallback(chi.URLParam(r, "callbackID"), req.AgentID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, call)
}

// Complete handles POST /api/callbacks/{callbackID}/complete
func (h *CallbacksHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Success bool   `json:"success"`
		Note    string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.CompleteCallback(chi.URLParam(r, "callbackID"), req.Success, req.Note); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "callback completed"})
}

// Cancel handles DELETE /api/callbacks/{callbackID}
func (h *CallbacksHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.CancelCallback(chi.URLParam(r, "callbackID")); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "callback cancelled"})
}
