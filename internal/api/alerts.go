package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/auth"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
)

// AlertsHandler exposes supervisor alerts over HTTP
type AlertsHandler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewAlertsHandler creates a new AlertsHandler
func NewAlertsHandler(eng *engine.Engine, logger zerolog.Logger) *AlertsHandler {
	return &AlertsHandler{engine: eng, logger: logger}
}

// Routes mounts the alert endpoints on a chi router
func (h *AlertsHandler) Routes(r chi.Router) {
	r.Get("/", h.Active)
	r.Get("/all", h.All)
	r.Post("/{alertID}/acknowledge", h.Acknowledge)
}

// Active handles GET /api/alerts (unacknowledged, most severe first)
func (h *AlertsHandler) Active(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.GetActiveAlerts())
}

// All handles GET /api/alerts/all
func (h *AlertsHandler) All(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.GetAllAlerts())
}

// Acknowledge handles POST /api/alerts/{alertID}/acknowledge. The actor
// defaults to the authenticated user when the body omits it.
func (h *AlertsHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AcknowledgedBy string `json:"acknowledgedBy"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if req.AcknowledgedBy == "" {
		if claims, ok := auth.GetUserFromContext(r.Context()); ok {
			req.AcknowledgedBy = claims.Email
		}
	}

	if err := h.engine.AcknowledgeAlert(chi.URLParam(r, "alertID"), req.AcknowledgedBy); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "alert acknowledged"})
}
