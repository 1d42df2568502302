package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomscout-engine/internal/domain"
)

func TestBuildIndex(t *testing.T) {
	t.Run("fields are canonicalized", func(t *testing.T) {
		raw := []domain.RawListing{{
			Name:        "Café Résidence!",
			Location:    "  Hilltop  ",
			RoomType:    "Single",
			Amenities:   []string{"Wi-Fi", "Parking"},
			Description: "Quiet place.",
			Tags:        []string{"Verified"},
		}}
		idx := BuildIndex(raw)
		require.Len(t, idx, 1)
		assert.Equal(t, "cafe residence", idx[0].Name)
		assert.Equal(t, "hilltop", idx[0].Location)
		assert.Equal(t, "single", idx[0].RoomType)
		assert.Equal(t, "wi-fi parking", idx[0].Amenities)
		assert.Equal(t, "quiet place verified", idx[0].Features)
		assert.Same(t, &raw[0], idx[0].Raw)
	})

	t.Run("completeness flags", func(t *testing.T) {
		price := 700.0
		idx := BuildIndex([]domain.RawListing{
			{Name: "A", Images: []string{"a.jpg"}, Price: &price},
			{Name: "B"},
		})
		assert.Equal(t, 1, idx[0].HasImages)
		assert.Equal(t, 1, idx[0].HasPrice)
		assert.Equal(t, 0, idx[1].HasImages)
		assert.Equal(t, 0, idx[1].HasPrice)
	})

	t.Run("near campus from flag or location text", func(t *testing.T) {
		idx := BuildIndex([]domain.RawListing{
			{Name: "A", NearCampus: true},
			{Name: "B", Location: "Near Campus Gate"},
			{Name: "C", Address: "12 Campus Road"},
			{Name: "D", Location: "Downtown"},
		})
		assert.True(t, idx[0].NearCampus)
		assert.True(t, idx[1].NearCampus)
		assert.True(t, idx[2].NearCampus)
		assert.False(t, idx[3].NearCampus)
	})

	t.Run("deterministic and non-mutating", func(t *testing.T) {
		raw := []domain.RawListing{
			{Name: "Sunrise Hostel", Location: "Hilltop"},
			{Name: "Green Park Flat"},
		}
		before := raw[0]
		first := BuildIndex(raw)
		second := BuildIndex(raw)
		assert.Equal(t, first, second)
		assert.Equal(t, before, raw[0])
	})
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	assert.Empty(t, c.Listings())
	assert.Empty(t, c.Locations())

	c.Replace([]domain.RawListing{
		{Name: "A", Location: "Hilltop"},
		{Name: "B", Location: "hilltop"}, // case-insensitive duplicate
		{Name: "C", Location: "Riverside"},
		{Name: "D"},
	})

	assert.Len(t, c.Listings(), 4)
	assert.Equal(t, []string{"Hilltop", "Riverside"}, c.Locations())

	c.Replace(nil)
	assert.Empty(t, c.Listings())
	assert.Empty(t, c.Locations())
}
