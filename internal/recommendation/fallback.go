package recommendation

import (
	"fmt"
	"strings"

	"github.com/spigell/talent-screener/internal/candidate"
)

const fallbackNote = "Note: This recommendation is based on quantitative assessment scores and candidate profile analysis."

func ladder(average float64) Label {
	switch {
	case average >= 0.8:
		return StrongHire
	case average >= 0.7:
		return Hire
	case average >= 0.5:
		return Hold
	default:
		return NoHire
	}
}

// band picks the phrase for the first threshold average reaches, or the last phrase.
func band(average float64, thresholds []float64, phrases ...string) string {
	for i, threshold := range thresholds {
		if average >= threshold {
			return phrases[i]
		}
	}
	return phrases[len(phrases)-1]
}

func stackPrefix(stack []string, n int) string {
	if len(stack) == 0 {
		return "relevant areas"
	}
	if len(stack) > n {
		stack = stack[:n]
	}
	return strings.Join(stack, ", ")
}

// Fallback renders the five sections from the average score alone.
// The same inputs always produce the same text.
func Fallback(average float64, profile candidate.Profile) Recommendation {
	label := ladder(average)
	tiers := []float64{0.7, 0.5}

	var nextStep string
	switch label {
	case StrongHire:
		nextStep = "Schedule final round interview"
	case Hold:
		nextStep = "Conduct additional technical assessment"
	default:
		nextStep = "Consider for different role/level"
	}

	lines := []string{
		fmt.Sprintf("1. RECOMMENDATION: %s", label),
		"",
		"2. JUSTIFICATION:",
		fmt.Sprintf("- Technical Skills Assessment: Candidate demonstrated %s technical knowledge",
			band(average, tiers, "strong", "moderate", "insufficient")),
		fmt.Sprintf("- Problem Solving Abilities: %s solved presented challenges",
			band(average, tiers, "Effectively", "Adequately", "Insufficiently")),
		fmt.Sprintf("- Communication Quality: Responses were %s",
			band(average, tiers, "clear and well-structured", "adequate", "needing improvement")),
		fmt.Sprintf("- Overall Fit for Role: %s alignment with position requirements",
			band(average, tiers, "Strong", "Potential", "Limited")),
		"",
		"3. KEY STRENGTHS:",
		"- Demonstrated technical knowledge in " + stackPrefix(profile.TechStack, 3),
		"- " + band(average, []float64{0.7}, "Strong problem-solving approach", "Basic understanding of concepts"),
		"- " + band(average, []float64{0.6}, "Clear communication skills", "Willingness to engage with technical questions"),
		"",
		"4. AREAS FOR IMPROVEMENT:",
		"- Advanced concepts in " + stackPrefix(profile.TechStack, 2),
		"- " + band(average, []float64{0.8}, "Edge case handling", "Detailed problem analysis"),
		"- " + band(average, []float64{0.7}, "Advanced scenario handling", "Technical communication clarity"),
		"",
		"5. SUGGESTED NEXT STEPS:",
		"- " + nextStep,
		"- " + band(average, []float64{0.7}, "Prepare system design discussion", "Review fundamental concepts"),
		"- " + band(average, []float64{0.6}, "Discuss team fit and project experience", "Gain more practical experience"),
		"- " + band(average, []float64{0.8}, "Evaluate architectural knowledge", "Focus on core competency development"),
		"",
		fallbackNote,
	}

	return Recommendation{
		Label:    label,
		Text:     strings.Join(lines, "\n"),
		Fallback: true,
	}
}
