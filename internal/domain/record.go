package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Legacy catalog records are loose JSON objects whose field names drifted
// across catalog versions. Each probe list is ordered by how trustworthy
// the field historically was; the first usable value wins.
var (
	nameFields     = []string{"name", "title", "listing_name", "property_name"}
	locationFields = []string{"location", "area", "city", "neighborhood"}
	addressFields  = []string{"address", "full_address", "street"}
	roomTypeFields = []string{"room_type", "roomType", "type", "unit_type"}
	descFields     = []string{"description", "summary", "details"}

	priceFields = []string{
		"price", "rent", "monthly_rent", "price_per_month",
		"price_per_night", "nightly_rate", "semester_price", "yearly_rent",
		"cost", "amount",
	}

	// price field name -> unit it implies
	priceUnits = map[string]PriceUnit{
		"monthly_rent":    UnitMonth,
		"price_per_month": UnitMonth,
		"price_per_night": UnitNight,
		"nightly_rate":    UnitNight,
		"semester_price":  UnitSemester,
		"yearly_rent":     UnitYear,
	}
)

// FromRecord adapts one loose catalog record onto the canonical RawListing
// shape. Missing or wrong-shaped fields degrade to zero values; it never
// fails.
func FromRecord(rec map[string]any) RawListing {
	l := RawListing{
		ID:          stringField(rec, "id", "_id", "listing_id"),
		Name:        stringField(rec, nameFields...),
		Location:    stringField(rec, locationFields...),
		Address:     stringField(rec, addressFields...),
		RoomType:    stringField(rec, roomTypeFields...),
		Description: stringField(rec, descFields...),
		Amenities:   stringListField(rec, "amenities", "features", "facilities"),
		Tags:        stringListField(rec, "tags", "keywords"),
		Images:      ImageURLs(rec),
		NearCampus:  boolField(rec, "near_campus", "nearCampus", "close_to_campus"),
		Verified:    boolField(rec, "verified", "is_verified"),
	}

	l.PriceUnit = unitField(rec)
	for _, f := range priceFields {
		v, ok := rec[f]
		if !ok {
			continue
		}
		p, ok := parsePrice(v)
		if !ok {
			continue
		}
		l.Price = &p
		if u, ok := priceUnits[f]; ok && l.PriceUnit == UnitUnknown {
			l.PriceUnit = u
		}
		break
	}

	return l
}

// ImageURLs extracts display image URLs from whichever shape the record
// carries. Tried in order: list of objects with a url, list of plain URL
// strings, list of photo objects, then single-value fallbacks. Returns the
// first non-empty result.
func ImageURLs(rec map[string]any) []string {
	for _, f := range []string{"images", "image_urls", "photos", "pictures"} {
		urls := urlList(rec[f])
		if len(urls) > 0 {
			return urls
		}
	}
	for _, f := range []string{"main_image", "cover_image", "image", "thumbnail"} {
		if s, ok := rec[f].(string); ok && strings.TrimSpace(s) != "" {
			return []string{strings.TrimSpace(s)}
		}
	}
	return nil
}

func urlList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		switch x := it.(type) {
		case string:
			if s := strings.TrimSpace(x); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			for _, k := range []string{"url", "src", "href", "image"} {
				if s, ok := x[k].(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
					break
				}
			}
		}
	}
	return out
}

func stringField(rec map[string]any, names ...string) string {
	for _, n := range names {
		switch v := rec[n].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func stringListField(rec map[string]any, names ...string) []string {
	for _, n := range names {
		switch v := rec[n].(type) {
		case []any:
			var out []string
			for _, it := range v {
				switch x := it.(type) {
				case string:
					if s := strings.TrimSpace(x); s != "" {
						out = append(out, s)
					}
				case map[string]any:
					// amenity objects like {"name": "WiFi"}
					if s, ok := x["name"].(string); ok && strings.TrimSpace(s) != "" {
						out = append(out, strings.TrimSpace(s))
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			// comma-separated legacy form
			var out []string
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func boolField(rec map[string]any, names ...string) bool {
	for _, n := range names {
		switch v := rec[n].(type) {
		case bool:
			return v
		case string:
			s := strings.ToLower(strings.TrimSpace(v))
			if s == "true" || s == "yes" || s == "1" {
				return true
			}
		case float64:
			return v != 0
		}
	}
	return false
}

func unitField(rec map[string]any) PriceUnit {
	s := strings.ToLower(stringField(rec, "price_unit", "priceUnit", "rent_period", "period"))
	switch {
	case s == "":
		return UnitUnknown
	case strings.Contains(s, "night"):
		return UnitNight
	case strings.Contains(s, "day"):
		return UnitDay
	case strings.Contains(s, "semester"):
		return UnitSemester
	case strings.Contains(s, "year") || strings.Contains(s, "annum"):
		return UnitYear
	case strings.Contains(s, "month"):
		return UnitMonth
	default:
		return UnitUnknown
	}
}

// parsePrice accepts numbers and number-ish strings ("GHS 1,200", "800.50").
func parsePrice(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if x > 0 {
			return x, true
		}
	case int:
		if x > 0 {
			return float64(x), true
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		var b strings.Builder
		for _, r := range s {
			if (r >= '0' && r <= '9') || r == '.' {
				b.WriteRune(r)
			}
		}
		p, err := strconv.ParseFloat(b.String(), 64)
		if err == nil && p > 0 {
			return p, true
		}
	case fmt.Stringer:
		return parsePrice(x.String())
	}
	return 0, false
}
