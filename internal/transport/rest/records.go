package rest

import (
	"log/slog"
	"net/http"
	"strings"
)

type recordIntents interface {
	DeleteRecord(id string)
	Reload()
}

// RecordsHandler serves record intents.
type RecordsHandler struct {
	core recordIntents
	log  *slog.Logger
}

// NewRecordsHandler creates a RecordsHandler.
func NewRecordsHandler(core recordIntents, logger *slog.Logger) *RecordsHandler {
	return &RecordsHandler{core: core, log: logger.With("handler", "records")}
}

// Delete handles DELETE /api/records/{id}.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}
	h.log.DebugContext(r.Context(), "delete requested", slog.String("record_id", id))
	h.core.DeleteRecord(id)
	accepted(w)
}

// Reload handles POST /api/records/reload.
func (h *RecordsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.core.Reload()
	accepted(w)
}
