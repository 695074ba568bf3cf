package assessment

import "sort"

const (
	weakScore     = 0.7
	maxFocusAreas = 3
)

var defaultFocusAreas = []string{"problem-solving", "technical depth", "implementation details"}

// DetermineFocusAreas ranks the topics of weakly answered questions by frequency.
// Ties keep first-seen order. The result is never empty.
func DetermineFocusAreas(results []Result) []string {
	var (
		order  []string
		counts = make(map[string]int)
	)
	for _, r := range results {
		if r.Score >= weakScore {
			continue
		}
		for _, term := range ExtractTerms(r.Question) {
			if counts[term] == 0 {
				order = append(order, term)
			}
			counts[term]++
		}
	}

	if len(order) == 0 {
		return append([]string(nil), defaultFocusAreas...)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxFocusAreas {
		order = order[:maxFocusAreas]
	}
	return order
}
