package candidate

import "strings"

// Persona selects the interviewer voice used for question prompts.
type Persona string

const (
	PersonaDefault    Persona = "Default"
	PersonaExpert     Persona = "Expert"
	PersonaAnalytical Persona = "Analytical"
	PersonaCreative   Persona = "Creative"
)

var (
	seniorRoles     = []string{"senior", "lead", "architect", "principal"}
	analyticalRoles = []string{"research", "data", "ml", "ai"}
	analyticalTech  = []string{"machine learning", "ai", "data science"}
	creativeRoles   = []string{"design", "ui", "ux", "frontend", "creative"}
)

// ClassifyPersona picks a persona from experience and role keywords.
// Seniority wins over domain, domain wins over design roles.
func ClassifyPersona(p Profile) Persona {
	position := strings.ToLower(p.DesiredPosition)

	if p.YearsOfExperience >= 8 || containsAny(position, seniorRoles) {
		return PersonaExpert
	}

	if containsAny(position, analyticalRoles) {
		return PersonaAnalytical
	}
	for _, tech := range p.TechStack {
		for _, want := range analyticalTech {
			if strings.EqualFold(strings.TrimSpace(tech), want) {
				return PersonaAnalytical
			}
		}
	}

	if containsAny(position, creativeRoles) {
		return PersonaCreative
	}

	return PersonaDefault
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
