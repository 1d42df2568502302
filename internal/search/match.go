package search

import "strings"

// Phrase matching over canonical text. A phrase hits only at word
// boundaries (string edge or space), so "ac" never fires inside "space"
// and consuming a phrase never leaves half a word behind. Hyphens count as
// word characters, matching the tokenizer's view of compounds.

func containsPhrase(canonical, phrase string) bool {
	if phrase == "" || canonical == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(canonical[from:], phrase)
		if i < 0 {
			return false
		}
		i += from
		if boundedAt(canonical, i, len(phrase)) {
			return true
		}
		from = i + 1
	}
}

// consumePhrase blanks every whole-word occurrence of phrase in canonical.
func consumePhrase(canonical, phrase string) string {
	if phrase == "" {
		return canonical
	}
	var b strings.Builder
	for {
		i := strings.Index(canonical, phrase)
		if i < 0 {
			break
		}
		if boundedAt(canonical, i, len(phrase)) {
			b.WriteString(canonical[:i])
			b.WriteByte(' ')
			canonical = canonical[i+len(phrase):]
			continue
		}
		b.WriteString(canonical[:i+1])
		canonical = canonical[i+1:]
	}
	b.WriteString(canonical)
	return b.String()
}

func boundedAt(s string, i, n int) bool {
	if i > 0 && s[i-1] != ' ' {
		return false
	}
	if end := i + n; end < len(s) && s[end] != ' ' {
		return false
	}
	return true
}
