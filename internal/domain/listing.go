package domain

// PriceUnit is the billing period a listing price refers to.
type PriceUnit string

const (
	UnitUnknown  PriceUnit = ""
	UnitNight    PriceUnit = "night"
	UnitDay      PriceUnit = "day"
	UnitMonth    PriceUnit = "month"
	UnitSemester PriceUnit = "semester"
	UnitYear     PriceUnit = "year"
)

// RawListing is the one canonical shape the rest of the system sees.
// Upstream records arrive with inconsistent field names and nesting;
// FromRecord maps them onto this struct at the ingest boundary and the
// engine never probes loose maps again.
type RawListing struct {
	ID          string
	Name        string
	Location    string
	Address     string
	RoomType    string
	Amenities   []string
	Description string
	Tags        []string

	Price     *float64
	PriceUnit PriceUnit

	NearCampus bool
	Verified   bool

	Images []string

	Source   string // board/feed/email
	SourceID string // dedup key, stable per source
}

// IndexedListing is a precomputed, immutable search view of one RawListing.
// All string fields are canonical (see text.Normalize). HasImages/HasPrice
// are 1/0 so they can feed score arithmetic directly.
type IndexedListing struct {
	Name      string
	Location  string
	Address   string
	RoomType  string
	Amenities string // space-joined amenity names, canonical
	Features  string // description + tags, canonical

	Price *float64
	Unit  PriceUnit

	NearCampus bool
	HasImages  int
	HasPrice   int

	Raw *RawListing
}

// Intent is the structured signal set extracted from one free-text query.
// It is a pure function of the query string.
type Intent struct {
	MinPrice *float64
	MaxPrice *float64

	Amenities []string // canonical amenity keys, in thesaurus order

	WantsNearCampus bool
	WantsCheap      bool

	// Tokens are the normalized query tokens left over after structured
	// extraction consumed its matches. They drive fuzzy field scoring.
	Tokens []string
}

// HasAmenity reports whether key is among the intent's amenity hints.
func (in Intent) HasAmenity(key string) bool {
	for _, k := range in.Amenities {
		if k == key {
			return true
		}
	}
	return false
}

// SortMode selects the final ordering of passing candidates.
type SortMode string

const (
	SortRecommended SortMode = "recommended"
	SortName        SortMode = "name"
	SortPriceLow    SortMode = "price_low"
)

// Filters is the discrete UI filter state, already best-effort parsed.
// Zero values and the "all"/"any" sentinels mean "no constraint".
type Filters struct {
	Location  string
	RoomType  string
	Distance  string // "near" restricts to near-campus listings
	Amenities []string
	MinPrice  string // raw text from the price fields; unparsable means unset
	MaxPrice  string
	Sort      SortMode
}

// Any is the sentinel accepted for Location/RoomType/Distance.
const Any = "any"

// Wants reports whether a filter value is an actual constraint.
func Wants(v string) bool {
	return v != "" && v != Any && v != "all"
}
