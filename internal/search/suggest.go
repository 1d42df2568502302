package search

import (
	"sort"
	"strings"

	"roomscout-engine/internal/text"
)

const (
	maxSuggestions        = 10
	maxLocationCandidates = 12
)

// DefaultTemplates are the canned query completions shown before the user
// has typed anything useful. Config can replace them.
var DefaultTemplates = []string{
	"under 800 near campus",
	"single room with wifi",
	"wifi + security",
	"self-contained near campus",
	"shared apartment under 1500",
	"furnished 2 bedroom",
	"cheap hostel with water",
	"studio with kitchen",
	"near campus with parking",
	"ensuite with ac",
}

// Suggest produces up to ten ranked query suggestions for the search box.
// The pool is the template list plus up to twelve known location names,
// deduplicated case-insensitively. Deterministic for identical inputs.
func Suggest(box string, locations, templates []string) []string {
	if len(templates) == 0 {
		templates = DefaultTemplates
	}

	seen := map[string]bool{}
	var pool []string
	add := func(s string) {
		key := text.Normalize(s)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		pool = append(pool, s)
	}
	for _, t := range templates {
		add(t)
	}
	locCount := 0
	for _, l := range locations {
		if locCount >= maxLocationCandidates {
			break
		}
		before := len(pool)
		add(l)
		if len(pool) > before {
			locCount++
		}
	}

	needle := text.Normalize(box)
	if needle == "" {
		if len(pool) > maxSuggestions {
			pool = pool[:maxSuggestions]
		}
		return pool
	}

	tokens := text.Tokenize(needle)
	type scored struct {
		s     string
		score int
	}
	var kept []scored
	for _, cand := range pool {
		canonical := text.Normalize(cand)
		sc := Score(canonical, tokens)
		if sc > 0 || strings.Contains(canonical, needle) {
			kept = append(kept, scored{s: cand, score: sc})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	out := make([]string, 0, maxSuggestions)
	for _, k := range kept {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, k.s)
	}
	return out
}
