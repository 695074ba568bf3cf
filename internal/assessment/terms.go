package assessment

import "strings"

// vocabulary is the fixed set of topic tags recognised in question text.
var vocabulary = []string{
	"algorithm",
	"data structure",
	"optimization",
	"complexity",
	"database",
	"architecture",
	"design pattern",
	"api",
	"performance",
	"scalability",
	"security",
	"testing",
	"debugging",
	"implementation",
	"framework",
	"library",
}

// ExtractTerms returns the vocabulary terms contained in text, in vocabulary order.
// Matching is a case-insensitive substring test.
func ExtractTerms(text string) []string {
	lower := strings.ToLower(text)

	var terms []string
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			terms = append(terms, term)
		}
	}
	return terms
}
