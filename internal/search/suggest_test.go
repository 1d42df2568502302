package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	locations := []string{"Hilltop", "Riverside", "Downtown"}

	t.Run("empty box returns leading pool entries", func(t *testing.T) {
		got := Suggest("", locations, DefaultTemplates)
		assert.Len(t, got, maxSuggestions)
		assert.Equal(t, DefaultTemplates[:maxSuggestions], got)
	})

	t.Run("box filters the pool", func(t *testing.T) {
		got := Suggest("wifi", locations, DefaultTemplates)
		require.NotEmpty(t, got)
		for _, s := range got {
			assert.Contains(t, []string{"single room with wifi", "wifi + security"}, s)
		}
	})

	t.Run("locations join the pool", func(t *testing.T) {
		got := Suggest("hilltop", locations, DefaultTemplates)
		assert.Contains(t, got, "Hilltop")
	})

	t.Run("case-insensitive dedup", func(t *testing.T) {
		got := Suggest("hilltop", []string{"Hilltop", "HILLTOP", "hilltop"}, []string{"some template"})
		count := 0
		for _, s := range got {
			if s == "Hilltop" || s == "HILLTOP" || s == "hilltop" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("location candidates are capped", func(t *testing.T) {
		var many []string
		for _, c := range "abcdefghijklmnopqrst" {
			many = append(many, "loc "+string(c))
		}
		got := Suggest("loc", many, []string{"unrelated template"})
		assert.LessOrEqual(t, len(got), maxSuggestions)
	})

	t.Run("never more than ten", func(t *testing.T) {
		got := Suggest("room", locations, DefaultTemplates)
		assert.LessOrEqual(t, len(got), maxSuggestions)
	})

	t.Run("no hits yields empty", func(t *testing.T) {
		assert.Empty(t, Suggest("xqzv", locations, DefaultTemplates))
	})

	t.Run("deterministic", func(t *testing.T) {
		first := Suggest("room", locations, DefaultTemplates)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Suggest("room", locations, DefaultTemplates))
		}
	})

	t.Run("nil templates fall back to defaults", func(t *testing.T) {
		got := Suggest("", nil, nil)
		assert.Equal(t, DefaultTemplates[:maxSuggestions], got)
	})
}
