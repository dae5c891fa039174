package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/tonememory/internal/service/tonesync"
)

type snapshotSource interface {
	Snapshot() tonesync.Snapshot
	Watch(fn func(tonesync.Snapshot)) (unwatch func())
}

// StateHandler serves the read side of the view: the current snapshot and a
// server-sent event stream of snapshots.
type StateHandler struct {
	core      snapshotSource
	log       *slog.Logger
	keepAlive time.Duration
}

// NewStateHandler creates a StateHandler.
func NewStateHandler(core snapshotSource, logger *slog.Logger) *StateHandler {
	return &StateHandler{
		core:      core,
		log:       logger.With("handler", "state"),
		keepAlive: 15 * time.Second,
	}
}

// State handles GET /api/state.
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateResponse(h.core.Snapshot()))
}

// Stream handles GET /api/state/stream. The current snapshot is sent first,
// then one event per change. A slow client skips to the newest snapshot.
func (h *StateHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The server write timeout would cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	latest := make(chan tonesync.Snapshot, 1)
	unwatch := h.core.Watch(func(s tonesync.Snapshot) {
		select {
		case <-latest:
		default:
		}
		latest <- s
	})
	defer unwatch()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sent := h.core.Snapshot()
	if err := writeEvent(w, rc, sent); err != nil {
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case s := <-latest:
			if s.Version <= sent.Version {
				continue
			}
			if err := writeEvent(w, rc, s); err != nil {
				h.log.DebugContext(r.Context(), "stream closed", slog.String("error", err.Error()))
				return
			}
			sent = s
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, s tonesync.Snapshot) error {
	data, err := json.Marshal(toStateResponse(s))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: state\ndata: %s\n\n", s.Version, data); err != nil {
		return err
	}
	return rc.Flush()
}
