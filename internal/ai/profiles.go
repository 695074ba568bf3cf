package ai

import (
	"fmt"
	"maps"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Purpose selects a parameter profile.
type Purpose string

const (
	PurposeEvaluation     Purpose = "evaluation"
	PurposeConversation   Purpose = "conversation"
	PurposeRecommendation Purpose = "recommendation"
	PurposeReport         Purpose = "report"
)

// Profiles maps each purpose to its generation parameters.
type Profiles map[Purpose]Params

// DefaultProfiles returns the built-in parameter profiles.
func DefaultProfiles() Profiles {
	return Profiles{
		PurposeEvaluation: {
			Temperature:      0.4,
			MaxTokens:        4028,
			TopP:             0.95,
			PresencePenalty:  0.6,
			FrequencyPenalty: 0.3,
		},
		PurposeConversation: {
			Temperature:      0.7,
			MaxTokens:        2000,
			TopP:             1.0,
			PresencePenalty:  0,
			FrequencyPenalty: 0,
		},
		PurposeRecommendation: {
			Temperature:      0.5,
			MaxTokens:        4028,
			TopP:             0.9,
			PresencePenalty:  0.4,
			FrequencyPenalty: 0.4,
		},
		PurposeReport: {
			Temperature:      0.3,
			MaxTokens:        4028,
			TopP:             0.8,
			PresencePenalty:  0.2,
			FrequencyPenalty: 0.2,
		},
	}
}

// WithOverrides returns a copy of p where the fields present in overrides
// replace the defaults. Keys of overrides are purpose names, values are maps
// keyed like the Params mapstructure tags (temperature, max-tokens, ...).
func (p Profiles) WithOverrides(overrides map[string]map[string]any) (Profiles, error) {
	result := make(Profiles, len(p))
	maps.Copy(result, p)

	for name, fields := range overrides {
		purpose := Purpose(strings.ToLower(strings.TrimSpace(name)))
		params, ok := result[purpose]
		if !ok {
			return nil, fmt.Errorf("unknown generation profile %q", name)
		}

		var meta mapstructure.Metadata
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Metadata:         &meta,
			Result:           &params,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("building decoder for profile %q: %w", name, err)
		}

		if err := decoder.Decode(fields); err != nil {
			return nil, fmt.Errorf("decoding profile %q: %w", name, err)
		}

		if len(meta.Unused) > 0 {
			return nil, fmt.Errorf("profile %q has unknown keys: %s", name, strings.Join(meta.Unused, ", "))
		}

		result[purpose] = params
	}

	return result, nil
}

// Get returns the profile for purpose, falling back to the conversation profile.
func (p Profiles) Get(purpose Purpose) Params {
	if params, ok := p[purpose]; ok {
		return params
	}
	return p[PurposeConversation]
}
