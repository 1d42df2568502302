package text

import "strings"

// Tokenize splits canonical text into tokens on spaces and hyphens.
// Duplicates are kept (they carry scoring weight) and order is preserved.
// Empty input yields no tokens, never an error.
func Tokenize(canonical string) []string {
	if canonical == "" {
		return nil
	}
	return strings.FieldsFunc(canonical, func(r rune) bool {
		return r == ' ' || r == '-'
	})
}
