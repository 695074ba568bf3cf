package candidate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New(validator.WithRequiredStructEnabled())
		_ = vld.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
			return ValidateEmail(fl.Field().String())
		})
		_ = vld.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
			return ValidatePhone(fl.Field().String())
		})
	})
	return vld
}

// FieldError is a single rejected intake field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every rejected intake field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return "invalid candidate profile: " + strings.Join(messages, "; ")
}

// Messages returns the field level messages in declaration order.
func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return messages
}

var fieldMessages = map[string]string{
	"Name":              "Full Name is required",
	"Email":             "Valid Email Address is required",
	"Phone":             "Valid Phone Number is required",
	"YearsOfExperience": "Years of Experience must be between 0 and 50",
	"DesiredPosition":   "Desired Position is required",
	"Location":          "Location is required",
	"TechStack":         "At least one Technology in Tech Stack is required",
}

// Validate normalizes p and checks every field. It returns the normalized
// profile, or a *ValidationError describing all invalid fields.
func Validate(p Profile) (Profile, error) {
	p = p.Normalize()

	err := getValidator().Struct(p)
	if err == nil {
		return p, nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return p, fmt.Errorf("validating candidate profile: %w", err)
	}

	result := &ValidationError{}
	seen := make(map[string]struct{})
	for _, fe := range invalid {
		// dive errors are reported as TechStack[0]; collapse them.
		field := fe.StructField()
		if idx := strings.IndexByte(field, '['); idx >= 0 {
			field = field[:idx]
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}

		message, ok := fieldMessages[field]
		if !ok {
			message = fmt.Sprintf("%s is invalid", field)
		}
		result.Fields = append(result.Fields, FieldError{Field: field, Message: message})
	}

	return p, result
}
