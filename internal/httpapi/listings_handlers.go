package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"roomscout-engine/internal/events"
	"roomscout-engine/internal/store"
)

type ListingsHandler struct {
	DB            *sql.DB
	Hub           *events.Hub
	DeleteListing func(ctx context.Context, db *sql.DB, id int64) error
	ReloadCatalog func(ctx context.Context) error
}

// List returns the raw stored listings, unranked. The search endpoints
// serve the scored view; this one is for the management UI.
func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := store.Snapshot(r.Context(), h.DB)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, listings)
}

func (h ListingsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/listings/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", 400)
		return
	}

	if err := h.DeleteListing(r.Context(), h.DB, id); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if err := h.ReloadCatalog(r.Context()); err != nil {
		http.Error(w, "deleted but catalog reload failed: "+err.Error(), 500)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeListingDeleted, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
