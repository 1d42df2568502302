package search

import (
	"strings"

	"roomscout-engine/internal/text"
)

// Per-token increments. Exact whole-word beats substring beats near miss;
// a token that matches nothing contributes zero.
const (
	scoreExact   = 10
	scorePartial = 5
	scoreNear    = 2
)

// Score rates a canonical field against residual query tokens. The result
// is the sum of the best increment per token, so repeated tokens stack and
// adding a matching token never lowers the score. Score(field, nil) is 0.
func Score(field string, tokens []string) int {
	if field == "" || len(tokens) == 0 {
		return 0
	}
	words := text.Tokenize(field)

	total := 0
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		total += tokenScore(field, words, tok)
	}
	return total
}

func tokenScore(field string, words []string, tok string) int {
	for _, w := range words {
		if w == tok {
			return scoreExact
		}
	}
	if strings.Contains(field, tok) {
		return scorePartial
	}
	for _, w := range words {
		if withinOneEdit(w, tok) {
			return scoreNear
		}
	}
	return 0
}

// withinOneEdit reports whether two words are at Levenshtein distance <= 1.
// Single-row DP with an early length check keeps it cheap for the short
// words this sees.
func withinOneEdit(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len(a), len(b)
	if la-lb > 1 || lb-la > 1 {
		return false
	}

	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	curr := make([]int, lb+1)
	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > 1 {
			return false
		}
		prev, curr = curr, prev
	}
	return prev[lb] <= 1
}
