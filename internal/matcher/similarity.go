package matcher

import "github.com/pmezard/go-difflib/difflib"

// Similarity returns the character-level sequence ratio 2*M/T between
// candidate and input, where M is the total size of the matching blocks and T
// the combined length. Candidate is the first sequence, as in difflib's
// close-match search.
func Similarity(candidate, input string) float64 {
	return newSequenceMatcher(candidate, input).Ratio()
}

func newSequenceMatcher(candidate, input string) *difflib.SequenceMatcher {
	return difflib.NewMatcher(splitRunes(candidate), splitRunes(input))
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
