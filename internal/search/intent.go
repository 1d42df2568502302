package search

import (
	"regexp"
	"strconv"

	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/text"
)

// The intent parser is an ordered list of independent extraction rules.
// Each rule inspects the normalized query, records what it extracted on the
// Intent, and blanks the spans it consumed so later rules and the residual
// tokenizer never see them. Adding a rule means appending to the list.

type intentRule struct {
	name  string
	apply func(q string, in *domain.Intent, th Thesaurus) string
}

var intentRules = []intentRule{
	{name: "price", apply: priceRule},
	{name: "proximity", apply: proximityRule},
	{name: "amenity", apply: amenityRule},
}

var (
	rangeRe = regexp.MustCompile(`(^|\s)(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)(\s|$)`)
	maxRe   = regexp.MustCompile(`(^|\s)(?:under|below|at most|max)\s+(\d+(?:\.\d+)?)(\s|$)`)
	minRe   = regexp.MustCompile(`(^|\s)(?:over|above|at least|min)\s+(\d+(?:\.\d+)?)(\s|$)`)
	cheapRe = regexp.MustCompile(`(^|\s)(?:cheap|cheapest|budget|affordable)(\s|$)`)

	// "<800" and ">500" only survive in the raw query: normalization strips
	// the comparator, so they are picked off before the word forms run.
	rawMaxRe = regexp.MustCompile(`<\s*(\d+(?:\.\d+)?)`)
	rawMinRe = regexp.MustCompile(`>\s*(\d+(?:\.\d+)?)`)
)

// ParseIntent extracts structured search signals from a free-text query.
// It is a pure function of the query and thesaurus; malformed numbers
// leave the bound unset and an empty query yields a zero Intent.
func ParseIntent(query string, th Thesaurus) domain.Intent {
	var in domain.Intent

	// Comparator forms are consumed against the raw string first; their
	// numbers are then blanked out of the normalized working copy too.
	var rawNums []string
	if m := rawMaxRe.FindStringSubmatch(query); m != nil {
		in.MaxPrice = parseBound(m[1])
		rawNums = append(rawNums, m[1])
	}
	if m := rawMinRe.FindStringSubmatch(query); m != nil {
		in.MinPrice = parseBound(m[1])
		rawNums = append(rawNums, m[1])
	}

	q := text.Normalize(query)
	for _, n := range rawNums {
		q = blankWord(q, n)
	}

	for _, rule := range intentRules {
		q = rule.apply(q, &in, th)
	}

	in.Tokens = text.Tokenize(text.Normalize(q))
	return in
}

func priceRule(q string, in *domain.Intent, _ Thesaurus) string {
	if m := rangeRe.FindStringSubmatch(q); m != nil {
		lo, hi := parseBound(m[2]), parseBound(m[3])
		if lo != nil && hi != nil && *lo > *hi {
			lo, hi = hi, lo
		}
		if in.MinPrice == nil {
			in.MinPrice = lo
		}
		if in.MaxPrice == nil {
			in.MaxPrice = hi
		}
		q = rangeRe.ReplaceAllString(q, " ")
	}
	if m := maxRe.FindStringSubmatch(q); m != nil {
		if in.MaxPrice == nil {
			in.MaxPrice = parseBound(m[2])
		}
		q = maxRe.ReplaceAllString(q, " ")
	}
	if m := minRe.FindStringSubmatch(q); m != nil {
		if in.MinPrice == nil {
			in.MinPrice = parseBound(m[2])
		}
		q = minRe.ReplaceAllString(q, " ")
	}
	if cheapRe.MatchString(q) {
		in.WantsCheap = true
		q = cheapRe.ReplaceAllString(q, " ")
	}
	return q
}

var proximityPhrases = []string{
	"near campus", "close to campus", "near the campus",
	"walking distance", "on campus",
}

func proximityRule(q string, in *domain.Intent, _ Thesaurus) string {
	for _, p := range proximityPhrases {
		if containsPhrase(q, p) {
			in.WantsNearCampus = true
			q = consumePhrase(q, p)
		}
	}
	return q
}

func amenityRule(q string, in *domain.Intent, th Thesaurus) string {
	for _, key := range th.Keys() {
		hit := false
		for _, phrase := range th.Synonyms(key) {
			if containsPhrase(q, phrase) {
				hit = true
				q = consumePhrase(q, phrase)
			}
		}
		if hit {
			in.Amenities = append(in.Amenities, key)
		}
	}
	return q
}

// parseBound returns nil on any parse failure: a malformed number means
// "no bound", never an error.
func parseBound(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// blankWord removes the first whole-word occurrence of w from q.
func blankWord(q, w string) string {
	re, err := regexp.Compile(`(^|\s)` + regexp.QuoteMeta(w) + `(\s|$)`)
	if err != nil {
		return q
	}
	return re.ReplaceAllString(q, " ")
}
