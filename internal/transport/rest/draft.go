package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/tonememory/internal/domain"
)

type draftIntents interface {
	SetField(name, value string) error
	CommitDraft()
}

// DraftHandler serves draft editing intents.
type DraftHandler struct {
	core draftIntents
	log  *slog.Logger
}

// NewDraftHandler creates a DraftHandler.
func NewDraftHandler(core draftIntents, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{core: core, log: logger.With("handler", "draft")}
}

type setFieldRequest struct {
	Value string `json:"value"`
}

// SetField handles PUT /api/draft/fields/{field}.
func (h *DraftHandler) SetField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.core.SetField(r.PathValue("field"), req.Value); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "set field failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	accepted(w)
}

// Commit handles POST /api/draft/commit.
func (h *DraftHandler) Commit(w http.ResponseWriter, r *http.Request) {
	h.core.CommitDraft()
	accepted(w)
}
