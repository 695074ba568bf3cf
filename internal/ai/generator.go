package ai

import (
	"context"
	"errors"
)

// ErrGeneration marks a failed or timed out text-generation call.
var ErrGeneration = errors.New("generation failed")

// Params tunes a single generation call.
type Params struct {
	Temperature      float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens        int     `mapstructure:"max-tokens" json:"max_tokens"`
	TopP             float64 `mapstructure:"top-p" json:"top_p"`
	PresencePenalty  float64 `mapstructure:"presence-penalty" json:"presence_penalty"`
	FrequencyPenalty float64 `mapstructure:"frequency-penalty" json:"frequency_penalty"`
}

// Request is a prompt plus its optional system instruction.
type Request struct {
	System string
	Prompt string
	Params Params
}

// Generator is implemented by provider clients.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Model() string
}
