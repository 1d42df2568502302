package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/events"
)

type IngestHandler struct {
	CfgVal        *atomic.Value // config.Config
	IngestStatus  *atomic.Value // httpapi.IngestStatus
	Hub           *events.Hub
	RunPollOnce   func(cfg config.Config, onNewListing func()) (added int, err error)
	ReloadCatalog func(ctx context.Context) error
}

func (h IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.IngestStatus.Load().(IngestStatus)
	writeJSON(w, st)
}

func (h IngestHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.IngestStatus.Load().(IngestStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.IngestStatus.Store(IngestStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastError: "",
		LastAdded: 0,
		LastOkAt:  st.LastOkAt,
	})

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		added, err := h.RunPollOnce(cfg, func() {
			h.Hub.Publish(events.MakeEvent("", events.TypeCatalogUpdated, 1, nil))
		})
		if added > 0 {
			// New rows landed; rebuild the in-memory search view.
			if rerr := h.ReloadCatalog(context.Background()); rerr != nil && err == nil {
				err = rerr
			}
		}

		now := time.Now().Format(time.RFC3339)
		next := h.IngestStatus.Load().(IngestStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = added
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.IngestStatus.Store(next)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
