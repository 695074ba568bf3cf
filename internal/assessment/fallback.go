package assessment

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/talent-screener/internal/utils"
)

const (
	fallbackWordTarget = 100
	fallbackTermTarget = 5

	fallbackOverall = "Overall: The answer has been evaluated using basic metrics. Please try submitting again for a more detailed AI evaluation."
)

var technicalKeywords = []string{
	"function",
	"class",
	"method",
	"algorithm",
	"complexity",
	"performance",
	"optimization",
}

// FallbackScore estimates answer quality from its length and technical vocabulary.
// It never fails and always returns a score within [0,1].
func FallbackScore(answer string) (float64, []string) {
	lengthScore := math.Min(float64(utils.WordCount(answer))/fallbackWordTarget, 1)

	lower := strings.ToLower(answer)
	matched := 0
	for _, keyword := range technicalKeywords {
		if strings.Contains(lower, keyword) {
			matched++
		}
	}
	complexityScore := math.Min(float64(matched)/fallbackTermTarget, 1)

	feedback := []string{
		fmt.Sprintf("Answer length: %s", choose(lengthScore > 0.7, "Good", "Could be more detailed")),
		fmt.Sprintf("Technical depth: %s", choose(complexityScore > 0.7, "Good", "Could include more technical details")),
		fallbackOverall,
	}

	return (lengthScore + complexityScore) / 2, feedback
}

func choose(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
