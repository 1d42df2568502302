package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/search"
	"roomscout-engine/internal/text"
)

type SearchHandler struct {
	Catalog   *search.Catalog
	Thesaurus search.Thesaurus
	Templates []string
	Session   *search.Session
}

// resultItem is one rendered search hit: display fields straight off the
// raw listing plus highlight segments for the active query.
type resultItem struct {
	ID         string       `json:"id,omitempty"`
	Name       string       `json:"name"`
	Location   string       `json:"location,omitempty"`
	Address    string       `json:"address,omitempty"`
	RoomType   string       `json:"room_type,omitempty"`
	Amenities  []string     `json:"amenities,omitempty"`
	Price      *float64     `json:"price,omitempty"`
	PriceUnit  string       `json:"price_unit,omitempty"`
	NearCampus bool         `json:"near_campus"`
	Verified   bool         `json:"verified"`
	Images     []string     `json:"images,omitempty"`
	Highlights highlightSet `json:"highlights"`
}

type highlightSet struct {
	Name     []text.Segment `json:"name,omitempty"`
	Location []text.Segment `json:"location,omitempty"`
}

type searchResponse struct {
	Query       string       `json:"query"`
	Total       int          `json:"total"`
	Results     []resultItem `json:"results"`
	Suggestions []string     `json:"suggestions"`
}

// Search runs one synchronous search pass over the current catalog.
func (h SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	f := filtersFromQuery(r)

	res := search.Run(h.Catalog, query, f, h.Thesaurus, h.Templates)

	resp := searchResponse{
		Query:       query,
		Total:       len(res.Listings),
		Results:     make([]resultItem, 0, len(res.Listings)),
		Suggestions: res.Suggestions,
	}
	for _, l := range res.Listings {
		resp.Results = append(resp.Results, renderResult(l, query))
	}
	writeJSON(w, resp)
}

// Suggest serves the search-box dropdown on its own.
func (h SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, map[string]any{
		"suggestions": search.Suggest(query, h.Catalog.Locations(), h.Templates),
	})
}

type liveQueryReq struct {
	Query string `json:"query"`
}

// Live feeds one keystroke into the debounced session; results arrive as
// results_updated events on the SSE stream once the query settles.
func (h SearchHandler) Live(w http.ResponseWriter, r *http.Request) {
	var req liveQueryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	h.Session.SetQuery(req.Query)
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// LiveFilters applies new discrete filter state to the live session.
func (h SearchHandler) LiveFilters(w http.ResponseWriter, r *http.Request) {
	var f domain.Filters
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	h.Session.SetFilters(f)
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

func renderResult(l domain.IndexedListing, query string) resultItem {
	raw := l.Raw
	return resultItem{
		ID:         raw.ID,
		Name:       raw.Name,
		Location:   raw.Location,
		Address:    raw.Address,
		RoomType:   raw.RoomType,
		Amenities:  raw.Amenities,
		Price:      l.Price,
		PriceUnit:  string(l.Unit),
		NearCampus: l.NearCampus,
		Verified:   raw.Verified,
		Images:     raw.Images,
		Highlights: highlightSet{
			Name:     text.Highlight(raw.Name, query),
			Location: text.Highlight(raw.Location, query),
		},
	}
}

func filtersFromQuery(r *http.Request) domain.Filters {
	q := r.URL.Query()
	f := domain.Filters{
		Location: q.Get("location"),
		RoomType: q.Get("room_type"),
		Distance: q.Get("distance"),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Sort:     domain.SortMode(q.Get("sort")),
	}
	if raw := strings.TrimSpace(q.Get("amenities")); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				f.Amenities = append(f.Amenities, a)
			}
		}
	}
	return f
}
