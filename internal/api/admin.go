package api

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/storage"
)

// AdminHandler holds maintenance operations on the call archive
type AdminHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(store storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{store: store, logger: logger}
}

// WipeArchive truncates all archive tables
func (h *AdminHandler) WipeArchive(w http.ResponseWriter, r *http.Request) {
	if err := h.store.TruncateAll(); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate archive tables")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to truncate: %s", err))
		return
	}

	h.logger.Info().Msg("archive tables truncated")
	respondJSON(w, http.StatusOK, map[string]string{"message": "archive tables truncated"})
}
