package text

import (
	"sort"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Segment is one contiguous run of a display string, flagged as matched or
// plain. Segments of one Highlight call concatenate back to the original
// string exactly.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// mapped holds the canonical form of a display string together with, for
// every canonical rune, the byte range of the original text it came from.
type mapped struct {
	runes []rune
	start []int
	end   []int
}

// Highlight splits display into matched/plain segments for the given query.
// Matching is done on the canonical forms and mapped back to the original
// bytes, so casing, accents and punctuation in the display text are
// preserved untouched.
func Highlight(display, query string) []Segment {
	if display == "" {
		return nil
	}

	tokens := Tokenize(Normalize(query))
	if len(tokens) == 0 {
		return []Segment{{Text: display}}
	}

	// Longest token first so a short token cannot swallow a longer
	// overlapping match.
	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})

	m := mapDisplay(display)
	covered := make([]bool, len(display))

	for _, tok := range tokens {
		tr := []rune(tok)
		for i := 0; i+len(tr) <= len(m.runes); i++ {
			if !runesEqual(m.runes[i:i+len(tr)], tr) {
				continue
			}
			for b := m.start[i]; b < m.end[i+len(tr)-1]; b++ {
				covered[b] = true
			}
		}
	}

	var segs []Segment
	runStart := 0
	for i := 1; i <= len(display); i++ {
		if i == len(display) || covered[i] != covered[runStart] {
			segs = append(segs, Segment{Text: display[runStart:i], Match: covered[runStart]})
			runStart = i
		}
	}
	return segs
}

// mapDisplay canonicalizes display rune by rune, recording original byte
// offsets. Separators collapse to single spaces; dropped runes (combining
// marks, leading separators) simply do not appear in the canonical form.
func mapDisplay(display string) mapped {
	var m mapped
	lastSpace := true // swallow leading separators

	for off, r := range display {
		size := len(string(r))

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			for _, fr := range foldRune(r) {
				m.runes = append(m.runes, fr)
				m.start = append(m.start, off)
				m.end = append(m.end, off+size)
			}
			lastSpace = false
			continue
		}
		if r == '-' {
			m.runes = append(m.runes, '-')
			m.start = append(m.start, off)
			m.end = append(m.end, off+size)
			lastSpace = false
			continue
		}
		if !lastSpace {
			m.runes = append(m.runes, ' ')
			m.start = append(m.start, off)
			m.end = append(m.end, off+size)
			lastSpace = true
		}
	}
	return m
}

// foldRune lower-cases one rune and strips its combining marks, mirroring
// Normalize for a single rune.
func foldRune(r rune) []rune {
	r = unicode.ToLower(r)
	decomposed := norm.NFD.String(string(r))
	out := make([]rune, 0, 1)
	for _, d := range decomposed {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		out = append(out, unicode.ToLower(d))
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
