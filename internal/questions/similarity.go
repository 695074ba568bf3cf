package questions

import "strings"

// duplicateOverlap is the word overlap above which two questions count as the same.
const duplicateOverlap = 0.7

// Similarity is the shared word count of a and b divided by the size of the
// larger word set. Words are lower-cased and split on whitespace.
func Similarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	larger := max(len(wordsA), len(wordsB))
	if larger == 0 {
		return 0
	}

	common := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			common++
		}
	}
	return float64(common) / float64(larger)
}

// Similar reports whether a and b are near duplicates.
func Similar(a, b string) bool {
	return Similarity(a, b) > duplicateOverlap
}

// SimilarToAny reports whether q is a near duplicate of any previous question.
func SimilarToAny(q string, previous []string) bool {
	for _, p := range previous {
		if Similar(q, p) {
			return true
		}
	}
	return false
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
