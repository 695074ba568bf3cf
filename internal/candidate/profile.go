package candidate

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// Profile is the candidate information collected at intake.
type Profile struct {
	Name              string   `json:"full_name" validate:"required"`
	Email             string   `json:"email" validate:"required,contact_email"`
	Phone             string   `json:"phone" validate:"required,contact_phone"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0,lte=50"`
	DesiredPosition   string   `json:"desired_position" validate:"required"`
	Location          string   `json:"location" validate:"required"`
	TechStack         []string `json:"tech_stack" validate:"required,min=1,dive,required"`
}

// ValidateEmail reports whether s looks like an email address.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidatePhone accepts 9 to 15 digits with an optional leading + and country code 1.
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// ValidateTechStack reports whether s is a comma separated list with at least one entry.
func ValidateTechStack(s string) bool {
	return len(ParseTechStack(s)) > 0
}

// ParseTechStack splits a comma separated list, dropping blanks and duplicates.
func ParseTechStack(s string) []string {
	seen := make(map[string]struct{})
	var stack []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		stack = append(stack, item)
	}
	return stack
}

// TechStackString joins the stack for prompts.
func (p Profile) TechStackString() string {
	return strings.Join(p.TechStack, ", ")
}

// Normalize trims every field and cleans up the tech stack.
func (p Profile) Normalize() Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.DesiredPosition = strings.TrimSpace(p.DesiredPosition)
	p.Location = strings.TrimSpace(p.Location)
	p.TechStack = ParseTechStack(strings.Join(p.TechStack, ","))
	return p
}
