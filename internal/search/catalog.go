package search

import (
	"strings"
	"sync/atomic"

	"roomscout-engine/internal/domain"
)

type snapshot struct {
	listings  []domain.IndexedListing
	locations []string
}

// Catalog holds the current indexed listing snapshot. Replace rebuilds the
// whole index from scratch (no incremental update); readers always see a
// complete, immutable snapshot.
type Catalog struct {
	v atomic.Value // snapshot
}

func NewCatalog() *Catalog {
	c := &Catalog{}
	c.v.Store(snapshot{})
	return c
}

// Replace swaps in a freshly indexed view of raw.
func (c *Catalog) Replace(raw []domain.RawListing) {
	snap := snapshot{listings: BuildIndex(raw)}

	seen := map[string]bool{}
	for i := range raw {
		loc := strings.TrimSpace(raw[i].Location)
		if loc == "" {
			continue
		}
		key := strings.ToLower(loc)
		if seen[key] {
			continue
		}
		seen[key] = true
		snap.locations = append(snap.locations, loc)
	}

	c.v.Store(snap)
}

// Listings returns the current indexed snapshot.
func (c *Catalog) Listings() []domain.IndexedListing {
	return c.v.Load().(snapshot).listings
}

// Locations returns the known location names in display form, deduplicated
// case-insensitively, in catalog order.
func (c *Catalog) Locations() []string {
	return c.v.Load().(snapshot).locations
}
