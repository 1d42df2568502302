package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecord(t *testing.T) {
	t.Run("modern shape", func(t *testing.T) {
		l := FromRecord(map[string]any{
			"id":          "abc",
			"name":        "Sunrise Hostel",
			"location":    "Hilltop",
			"address":     "12 Campus Rd",
			"room_type":   "single",
			"description": "Quiet place",
			"amenities":   []any{"WiFi", "Parking"},
			"tags":        []any{"verified"},
			"price":       700.0,
			"price_unit":  "per month",
			"near_campus": true,
			"verified":    true,
			"images":      []any{"https://cdn.example.com/a.jpg"},
		})
		assert.Equal(t, "abc", l.ID)
		assert.Equal(t, "Sunrise Hostel", l.Name)
		assert.Equal(t, "Hilltop", l.Location)
		assert.Equal(t, "12 Campus Rd", l.Address)
		assert.Equal(t, "single", l.RoomType)
		assert.Equal(t, []string{"WiFi", "Parking"}, l.Amenities)
		require.NotNil(t, l.Price)
		assert.Equal(t, 700.0, *l.Price)
		assert.Equal(t, UnitMonth, l.PriceUnit)
		assert.True(t, l.NearCampus)
		assert.True(t, l.Verified)
		assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, l.Images)
	})

	t.Run("legacy field names", func(t *testing.T) {
		l := FromRecord(map[string]any{
			"title":        "Green Park Flat",
			"area":         "Riverside",
			"type":         "double",
			"monthly_rent": 950.0,
			"facilities":   "Kitchen, Laundry",
		})
		assert.Equal(t, "Green Park Flat", l.Name)
		assert.Equal(t, "Riverside", l.Location)
		assert.Equal(t, "double", l.RoomType)
		require.NotNil(t, l.Price)
		assert.Equal(t, 950.0, *l.Price)
		// unit implied by the field name
		assert.Equal(t, UnitMonth, l.PriceUnit)
		assert.Equal(t, []string{"Kitchen", "Laundry"}, l.Amenities)
	})

	t.Run("price probe order", func(t *testing.T) {
		l := FromRecord(map[string]any{
			"price": 500.0,
			"rent":  999.0,
		})
		require.NotNil(t, l.Price)
		assert.Equal(t, 500.0, *l.Price)
	})

	t.Run("number-ish price strings", func(t *testing.T) {
		l := FromRecord(map[string]any{"price": "GHS 1,200"})
		require.NotNil(t, l.Price)
		assert.Equal(t, 1200.0, *l.Price)
	})

	t.Run("garbage price stays nil", func(t *testing.T) {
		for _, v := range []any{"call us", "", 0.0, -50.0, true} {
			l := FromRecord(map[string]any{"price": v})
			assert.Nil(t, l.Price, "price %v", v)
		}
	})

	t.Run("amenity objects", func(t *testing.T) {
		l := FromRecord(map[string]any{
			"amenities": []any{
				map[string]any{"name": "WiFi"},
				map[string]any{"name": "Security"},
			},
		})
		assert.Equal(t, []string{"WiFi", "Security"}, l.Amenities)
	})

	t.Run("bool-ish strings", func(t *testing.T) {
		assert.True(t, FromRecord(map[string]any{"near_campus": "yes"}).NearCampus)
		assert.True(t, FromRecord(map[string]any{"verified": 1.0}).Verified)
		assert.False(t, FromRecord(map[string]any{"near_campus": "no"}).NearCampus)
	})

	t.Run("empty record never fails", func(t *testing.T) {
		l := FromRecord(map[string]any{})
		assert.Equal(t, RawListing{}, l)
	})
}

func TestImageURLs(t *testing.T) {
	t.Run("object list with url key", func(t *testing.T) {
		got := ImageURLs(map[string]any{
			"images": []any{
				map[string]any{"url": "https://x/a.jpg"},
				map[string]any{"src": "https://x/b.jpg"},
			},
		})
		assert.Equal(t, []string{"https://x/a.jpg", "https://x/b.jpg"}, got)
	})

	t.Run("plain string list", func(t *testing.T) {
		got := ImageURLs(map[string]any{"image_urls": []any{"https://x/a.jpg", "  "}})
		assert.Equal(t, []string{"https://x/a.jpg"}, got)
	})

	t.Run("photos fallback", func(t *testing.T) {
		got := ImageURLs(map[string]any{
			"photos": []any{map[string]any{"href": "https://x/p.jpg"}},
		})
		assert.Equal(t, []string{"https://x/p.jpg"}, got)
	})

	t.Run("single value fallbacks", func(t *testing.T) {
		got := ImageURLs(map[string]any{"main_image": " https://x/cover.jpg "})
		assert.Equal(t, []string{"https://x/cover.jpg"}, got)
	})

	t.Run("first non-empty shape wins", func(t *testing.T) {
		got := ImageURLs(map[string]any{
			"images":     []any{},
			"main_image": "https://x/cover.jpg",
		})
		assert.Equal(t, []string{"https://x/cover.jpg"}, got)
	})

	t.Run("nothing usable", func(t *testing.T) {
		assert.Nil(t, ImageURLs(map[string]any{"images": "not-a-list"}))
	})
}
