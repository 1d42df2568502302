package search

import (
	"strings"

	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/text"
)

// BuildIndex derives the searchable view of a raw listing snapshot. It is a
// pure function: the same input always produces field-for-field identical
// output, and nothing of the raw slice is mutated.
func BuildIndex(raw []domain.RawListing) []domain.IndexedListing {
	out := make([]domain.IndexedListing, len(raw))
	for i := range raw {
		out[i] = indexOne(&raw[i])
	}
	return out
}

func indexOne(l *domain.RawListing) domain.IndexedListing {
	idx := domain.IndexedListing{
		Name:      text.Normalize(l.Name),
		Location:  text.Normalize(l.Location),
		Address:   text.Normalize(l.Address),
		RoomType:  text.Normalize(l.RoomType),
		Amenities: text.Normalize(strings.Join(l.Amenities, " ")),
		Features:  text.Normalize(l.Description + " " + strings.Join(l.Tags, " ")),
		Price:     l.Price,
		Unit:      l.PriceUnit,
		Raw:       l,
	}

	idx.NearCampus = l.NearCampus ||
		containsPhrase(idx.Location, "campus") ||
		containsPhrase(idx.Address, "campus")

	if len(l.Images) > 0 {
		idx.HasImages = 1
	}
	if l.Price != nil {
		idx.HasPrice = 1
	}
	return idx
}
