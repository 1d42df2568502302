package search

import (
	"sort"

	"roomscout-engine/internal/text"
)

// Thesaurus maps canonical amenity keys to the literal phrases that count
// as evidence of that amenity. It is plain injected data, never computed;
// tests substitute a minimal one.
type Thesaurus struct {
	keys []string
	syn  map[string][]string
}

// NewThesaurus builds a thesaurus from a key -> synonyms map. Synonym
// phrases are normalized up front; keys iterate in sorted order so every
// consumer is deterministic.
func NewThesaurus(m map[string][]string) Thesaurus {
	t := Thesaurus{syn: make(map[string][]string, len(m))}
	for key, phrases := range m {
		key = text.Normalize(key)
		if key == "" {
			continue
		}
		var out []string
		for _, p := range phrases {
			if p = text.Normalize(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			out = []string{key}
		}
		t.keys = append(t.keys, key)
		t.syn[key] = out
	}
	sort.Strings(t.keys)
	return t
}

// DefaultThesaurus covers the amenities student-housing catalogs actually
// carry. Deployments override it in config.
func DefaultThesaurus() Thesaurus {
	return NewThesaurus(map[string][]string{
		"wifi":        {"wifi", "wi-fi", "wireless", "internet"},
		"security":    {"security", "guard", "cctv", "gated"},
		"kitchen":     {"kitchen", "kitchenette"},
		"parking":     {"parking", "garage", "car park"},
		"laundry":     {"laundry", "washer", "washing machine"},
		"furnished":   {"furnished", "furniture"},
		"bathroom":    {"bathroom", "ensuite", "en-suite", "private bath"},
		"water":       {"water", "running water", "borehole"},
		"electricity": {"electricity", "power", "prepaid meter"},
		"ac":          {"ac", "air conditioning", "air con", "aircon"},
	})
}

// Keys returns the canonical amenity keys in stable order.
func (t Thesaurus) Keys() []string { return t.keys }

// Synonyms returns the normalized phrases for key. An unknown key falls
// back to the key itself, so lookups never fail.
func (t Thesaurus) Synonyms(key string) []string {
	key = text.Normalize(key)
	if s, ok := t.syn[key]; ok {
		return s
	}
	if key == "" {
		return nil
	}
	return []string{key}
}
