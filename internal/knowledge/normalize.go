package knowledge

import "strings"

// Normalize lower-cases and trims raw input for matching. It does no Unicode
// folding, punctuation stripping or tokenization.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
