package search

import (
	"sync"
	"time"

	"roomscout-engine/internal/domain"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// recomputation fires.
const DefaultDebounce = 180 * time.Millisecond

// Results is what one completed search pass hands to the consumer.
type Results struct {
	Query       string                  `json:"query"`
	Listings    []domain.IndexedListing `json:"listings"`
	Suggestions []string                `json:"suggestions"`
}

// Session is a live search-box session: keystrokes arrive via SetQuery and
// only the most recent value is ever parsed and scored. Every keystroke
// inside the debounce window cancels the pending recompute for the previous
// value (last write wins; nothing is computed for superseded queries).
// Filter and catalog changes recompute immediately.
type Session struct {
	mu        sync.Mutex
	catalog   *Catalog
	thesaurus Thesaurus
	templates []string
	interval  time.Duration

	query   string
	filters domain.Filters
	timer   *time.Timer
	closed  bool

	onResults func(Results)
}

// NewSession wires a session to a catalog. onResults receives every
// completed pass; it is called without the session lock held.
func NewSession(catalog *Catalog, th Thesaurus, templates []string, debounce time.Duration, onResults func(Results)) *Session {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Session{
		catalog:   catalog,
		thesaurus: th,
		templates: templates,
		interval:  debounce,
		onResults: onResults,
	}
}

// SetQuery records a keystroke and schedules a debounced recompute.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.query = q
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, s.recompute)
}

// SetFilters applies new discrete filter state and recomputes immediately.
func (s *Session) SetFilters(f domain.Filters) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.filters = f
	s.mu.Unlock()
	s.recompute()
}

// Refresh recomputes against the current catalog snapshot, e.g. after the
// raw listing set was replaced.
func (s *Session) Refresh() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.recompute()
}

// Close cancels any pending recompute. Further calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) recompute() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	query := s.query
	filters := s.filters
	s.mu.Unlock()

	res := Run(s.catalog, query, filters, s.thesaurus, s.templates)
	if s.onResults != nil {
		s.onResults(res)
	}
}

// Run executes one full synchronous search pass: parse intent, rank, and
// suggest. Stateless; safe for concurrent callers on the same catalog.
func Run(catalog *Catalog, query string, f domain.Filters, th Thesaurus, templates []string) Results {
	in := ParseIntent(query, th)
	return Results{
		Query:       query,
		Listings:    Rank(catalog.Listings(), in, f, th),
		Suggestions: Suggest(query, catalog.Locations(), templates),
	}
}
