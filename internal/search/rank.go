package search

import (
	"sort"
	"strconv"
	"strings"

	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/text"
)

// Field weights and ranking bonuses. Name hits dominate, then location;
// listing completeness (images, known price) ranks results when there is no
// query text at all.
const (
	weightName     = 3
	weightLocation = 2
	weightAddress  = 1
	weightFeatures = 1

	bonusImages     = 60
	bonusPrice      = 40
	bonusIntentNear = 80
	bonusFilterNear = 60
	bonusRoomType   = 40
	bonusAmenity    = 30

	cheapBase    = 8000
	cheapDivisor = 50
)

// candidate pairs a listing with its composite score for one ranking pass.
// Never retained past the sort.
type candidate struct {
	listing domain.IndexedListing
	score   float64
}

// Rank combines the UI filter state, the parsed intent and per-field fuzzy
// scores into the final ordered result list.
func Rank(listings []domain.IndexedListing, in domain.Intent, f domain.Filters, th Thesaurus) []domain.IndexedListing {
	minBound, maxBound := priceBounds(in, f)
	wantAmenities := unionAmenities(f.Amenities, in.Amenities)

	var loc, room string
	if domain.Wants(f.Location) {
		loc = text.Normalize(f.Location)
	}
	if domain.Wants(f.RoomType) {
		room = text.Normalize(f.RoomType)
	}
	nearOnly := domain.Wants(f.Distance)

	structured := len(wantAmenities) > 0 || room != "" ||
		minBound != nil || maxBound != nil || nearOnly

	cands := make([]candidate, 0, len(listings))
	for _, l := range listings {
		if loc != "" && !strings.Contains(l.Location, loc) {
			continue
		}
		if nearOnly && !l.NearCampus {
			continue
		}
		if room != "" && !strings.Contains(l.RoomType, room) {
			continue
		}
		if !hasAllAmenities(l, wantAmenities, th) {
			continue
		}
		// Unknown price never hides a listing; bounds only apply to known
		// prices.
		if l.Price != nil {
			if minBound != nil && *l.Price < *minBound {
				continue
			}
			if maxBound != nil && *l.Price > *maxBound {
				continue
			}
		}

		sName := Score(l.Name, in.Tokens)
		sLoc := Score(l.Location, in.Tokens)
		sAddr := Score(l.Address, in.Tokens)
		sFeat := Score(l.Features, in.Tokens)

		// Query gate: free text that hits nothing anywhere cannot be
		// rescued by ranking bonuses alone. Structured criteria still
		// surface listings on their own.
		if len(in.Tokens) > 0 {
			textHit := sName > 0 || sLoc > 0 || sAddr > 0 || sFeat > 0
			if !textHit && !structured {
				continue
			}
		}

		score := float64(bonusImages*l.HasImages + bonusPrice*l.HasPrice)
		if len(in.Tokens) > 0 {
			score += float64(weightName*sName + weightLocation*sLoc +
				weightAddress*sAddr + weightFeatures*sFeat)
		}
		if in.WantsNearCampus && l.NearCampus {
			score += bonusIntentNear
		}
		if in.WantsCheap && l.Price != nil {
			if b := (cheapBase - *l.Price) / cheapDivisor; b > 0 {
				score += b
			}
		}
		if nearOnly {
			score += bonusFilterNear
		}
		if room != "" {
			score += bonusRoomType
		}
		if len(wantAmenities) > 0 {
			score += bonusAmenity
		}

		cands = append(cands, candidate{listing: l, score: score})
	}

	sortCandidates(cands, f.Sort)

	out := make([]domain.IndexedListing, len(cands))
	for i, c := range cands {
		out[i] = c.listing
	}
	return out
}

func sortCandidates(cands []candidate, mode domain.SortMode) {
	switch mode {
	case domain.SortName:
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].listing.Name < cands[j].listing.Name
		})
	case domain.SortPriceLow:
		// unknown price sorts last, ties break by score
		sort.SliceStable(cands, func(i, j int) bool {
			pi, pj := cands[i].listing.Price, cands[j].listing.Price
			switch {
			case pi == nil && pj == nil:
				return cands[i].score > cands[j].score
			case pi == nil:
				return false
			case pj == nil:
				return true
			case *pi != *pj:
				return *pi < *pj
			default:
				return cands[i].score > cands[j].score
			}
		})
	default:
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].score > cands[j].score
		})
	}
}

// priceBounds resolves the effective bounds: manual filter fields win over
// intent-derived ones; unparsable manual text means "not set".
func priceBounds(in domain.Intent, f domain.Filters) (minBound, maxBound *float64) {
	minBound, maxBound = in.MinPrice, in.MaxPrice
	if v, ok := parseManualPrice(f.MinPrice); ok {
		minBound = &v
	}
	if v, ok := parseManualPrice(f.MaxPrice); ok {
		maxBound = &v
	}
	return minBound, maxBound
}

func parseManualPrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// unionAmenities merges manually selected keys with intent hints, keeping
// first-seen order and dropping duplicates.
func unionAmenities(manual, hinted []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range append(append([]string{}, manual...), hinted...) {
		k = text.Normalize(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// hasAllAmenities requires every requested amenity; any synonym phrase in
// the listing's amenity text is evidence.
func hasAllAmenities(l domain.IndexedListing, keys []string, th Thesaurus) bool {
	for _, key := range keys {
		found := false
		for _, phrase := range th.Synonyms(key) {
			if containsPhrase(l.Amenities, phrase) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
