package candidate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		Name:              " Ada Lovelace ",
		Email:             "ada@example.com",
		Phone:             "+14155552671",
		YearsOfExperience: 3,
		DesiredPosition:   "Backend Engineer",
		Location:          "London",
		TechStack:         []string{" Python", "python", "", "Django "},
	}
}

func TestValidateNormalizes(t *testing.T) {
	p, err := Validate(validProfile())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, []string{"Python", "Django"}, p.TechStack)
	assert.Equal(t, "Python, Django", p.TechStackString())
}

func TestValidateCollectsFieldMessages(t *testing.T) {
	p := Profile{
		Email:             "not-an-email",
		Phone:             "12",
		YearsOfExperience: -1,
		TechStack:         []string{" ", ""},
	}

	_, err := Validate(p)
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))

	assert.Equal(t, []string{
		"Full Name is required",
		"Valid Email Address is required",
		"Valid Phone Number is required",
		"Years of Experience must be between 0 and 50",
		"Desired Position is required",
		"Location is required",
		"At least one Technology in Tech Stack is required",
	}, vErr.Messages())
	assert.Contains(t, vErr.Error(), "Location is required")
}

func TestFieldValidators(t *testing.T) {
	assert.True(t, ValidateEmail("a.b+c@sub.example.io"))
	assert.False(t, ValidateEmail("a@b"))
	assert.False(t, ValidateEmail("@example.com"))

	assert.True(t, ValidatePhone("123456789"))
	assert.True(t, ValidatePhone("+1234567890123"))
	assert.False(t, ValidatePhone("12345678"))
	assert.False(t, ValidatePhone("+12-345-678-90"))

	assert.True(t, ValidateTechStack("Go"))
	assert.True(t, ValidateTechStack(" , Go ,"))
	assert.False(t, ValidateTechStack(" , ,"))
	assert.False(t, ValidateTechStack(""))
}

func TestClassifyPersona(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		want    Persona
	}{
		{"experience", Profile{YearsOfExperience: 8, DesiredPosition: "Frontend Developer"}, PersonaExpert},
		{"senior title", Profile{DesiredPosition: "Senior Data Engineer"}, PersonaExpert},
		{"data role", Profile{DesiredPosition: "Data Engineer"}, PersonaAnalytical},
		{"ml stack", Profile{DesiredPosition: "Engineer", TechStack: []string{"Machine Learning"}}, PersonaAnalytical},
		{"frontend", Profile{DesiredPosition: "Frontend Developer"}, PersonaCreative},
		{"default", Profile{DesiredPosition: "Backend Developer", TechStack: []string{"Go"}}, PersonaDefault},
		{"empty", Profile{}, PersonaDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyPersona(tc.profile))
		})
	}
}
