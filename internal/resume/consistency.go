package resume

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/candidate"
)

const (
	experienceTolerance = 2
	minPositionWordLen  = 4

	strongConsistency = 0.8
	fairConsistency   = 0.6
)

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?).+?experience`),
	regexp.MustCompile(`experience.+?(\d+)\+?\s*(?:years?|yrs?)`),
}

// skillCatalogue lists the technologies recognised in resume text, by category.
var skillCatalogue = map[string][]string{
	"languages":  {"python", "java", "javascript", "c++", "ruby", "php", "swift", "kotlin", "go", "rust"},
	"frameworks": {"django", "flask", "spring", "react", "angular", "vue", "express", "rails", "laravel"},
	"databases":  {"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch", "cassandra"},
	"tools":      {"git", "docker", "kubernetes", "jenkins", "aws", "azure", "gcp", "terraform", "ansible"},
}

var skillCategories = []string{"languages", "frameworks", "databases", "tools"}

// Assessment is the outcome of comparing a resume with the intake profile.
type Assessment struct {
	ConsistencyScore float64  `json:"consistency_score"`
	Findings         []string `json:"findings"`
	// MatchedSkills are claimed skills confirmed by the resume, in claimed order.
	MatchedSkills []string `json:"matched_skills,omitempty"`
	// DetectedSkills are catalogue technologies mentioned anywhere in the resume.
	DetectedSkills []string `json:"detected_skills,omitempty"`
}

// Signal converts the assessment into the confidence engine input.
func (a Assessment) Signal() assessment.ResumeSignal {
	return assessment.ResumeConsistency(a.ConsistencyScore, a.Findings)
}

// AnalyzeConsistency checks claimed experience, skills and position against
// resume text. The score starts at 1.0, takes the configured penalties and
// bonus and is clamped to [0,1]. now anchors "YYYY - present" ranges.
func AnalyzeConsistency(text string, profile candidate.Profile, t assessment.Thresholds, now time.Time) Assessment {
	lower := strings.ToLower(text)
	result := Assessment{ConsistencyScore: 1.0, Findings: []string{}}

	if years, ok := maxExperience(lower, now); ok {
		if abs(years-profile.YearsOfExperience) > experienceTolerance {
			result.ConsistencyScore += t.ExperienceMismatchPenalty
			result.Findings = append(result.Findings, fmt.Sprintf(
				"Experience discrepancy: Claimed %d years, Resume suggests %d years",
				profile.YearsOfExperience, years,
			))
		}
	}

	var missing []string
	for _, skill := range profile.TechStack {
		if mentions(lower, strings.ToLower(strings.TrimSpace(skill))) {
			result.MatchedSkills = append(result.MatchedSkills, skill)
			continue
		}
		missing = append(missing, strings.ToLower(skill))
	}
	if len(missing) > 0 {
		result.ConsistencyScore += float64(len(missing)) * t.SkillMismatchPenalty
		result.Findings = append(result.Findings,
			"Skills mentioned but not found in resume: "+strings.Join(missing, ", "))
	}

	if positionAligned(lower, profile.DesiredPosition) {
		result.ConsistencyScore += t.ResumeMatchBonus
	} else {
		result.ConsistencyScore += t.ResumeMismatchPenalty
		result.Findings = append(result.Findings, "Desired position not aligned with resume content")
	}

	result.DetectedSkills = DetectSkills(lower)
	result.ConsistencyScore = math.Max(0, math.Min(result.ConsistencyScore, 1))
	return result
}

// DetectSkills returns catalogue technologies found in text, grouped by category.
func DetectSkills(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, category := range skillCategories {
		for _, skill := range skillCatalogue[category] {
			if mentions(lower, skill) {
				found = append(found, skill)
			}
		}
	}
	return found
}

// Motivation is a short encouragement shown before the interview starts.
func Motivation(a Assessment) string {
	switch {
	case a.ConsistencyScore >= strongConsistency && len(a.MatchedSkills) > 0:
		return fmt.Sprintf("Your experience in %s stands out. Let's showcase your expertise!", a.MatchedSkills[0])
	case a.ConsistencyScore >= fairConsistency:
		return "Your background shows promise. This assessment will highlight your potential."
	default:
		return "Every question is an opportunity to demonstrate your capabilities!"
	}
}

func maxExperience(lower string, now time.Time) (int, bool) {
	patterns := append([]*regexp.Regexp{}, experiencePatterns...)
	patterns = append(patterns, regexp.MustCompile(
		`(\d{4})\s*-\s*(?:present|current|now|`+strconv.Itoa(now.Year())+`)`,
	))

	best, found := 0, false
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			n, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if len(match[1]) == 4 {
				n = now.Year() - n
			}
			if !found || n > best {
				best, found = n, true
			}
		}
	}
	return best, found
}

// mentions reports whether term occurs in text as a whole token.
func mentions(text, term string) bool {
	if term == "" {
		return false
	}
	pattern := `(?:^|[^a-z0-9+#])` + regexp.QuoteMeta(term) + `(?:$|[^a-z0-9+#])`
	return regexp.MustCompile(pattern).MatchString(text)
}

func positionAligned(lower, position string) bool {
	for _, word := range strings.Fields(strings.ToLower(position)) {
		if utf8.RuneCountInString(word) < minPositionWordLen {
			continue
		}
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
