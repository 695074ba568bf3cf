package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/talent-screener/internal/ai"
	"github.com/spigell/talent-screener/internal/ai/gemini"
	"github.com/spigell/talent-screener/internal/ai/openai"
	"github.com/spigell/talent-screener/internal/secrets"

	"go.uber.org/zap"
)

// newRegistry builds the generation registry for the configured provider.
// The api key is resolved lazily by the factory, on the first Get.
func newRegistry(cfg *AIConfig, logger *zap.Logger) (*ai.Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ai configuration is required")
	}

	profiles, err := ai.DefaultProfiles().WithOverrides(cfg.Profiles)
	if err != nil {
		return nil, fmt.Errorf("ai profiles: %w", err)
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	var (
		factory   ai.Factory
		model     string
		temporary func(error) bool
	)

	switch provider {
	case "", "gemini":
		provider = "gemini"
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		model = gc.Model
		temporary = gemini.IsTemporary
		factory = func(ctx context.Context) (ai.Generator, error) {
			apiKey, err := secrets.Load(secrets.Source{
				Name:  "gemini api key",
				File:  gc.APIKeyFile,
				Value: gc.APIKey,
				Env:   "GEMINI_API_KEY",
			})
			if err != nil {
				return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
			}
			return gemini.NewGenerator(ctx, apiKey, gc.Model, logger.With(zap.String("provider", provider)))
		}
	case "openai", "groq":
		oc := cfg.OpenAI
		if oc == nil {
			oc = &OpenAIConfig{}
		}
		model = oc.Model
		temporary = openai.IsTemporary
		factory = func(context.Context) (ai.Generator, error) {
			apiKey, err := secrets.Load(secrets.Source{
				Name:  "openai-compatible api key",
				File:  oc.APIKeyFile,
				Value: oc.APIKey,
				Env:   "GROQ_API_KEY",
			})
			if err != nil {
				return nil, fmt.Errorf("%w (set ai.openai.api-key-file or GROQ_API_KEY)", err)
			}
			return openai.New(apiKey, oc.Model, oc.BaseURL, logger.With(zap.String("provider", provider)))
		}
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	registry := ai.NewRegistry(ai.RegistryConfig{
		Provider: provider,
		Model:    model,
		Profiles: profiles,
		Guard: ai.GuardConfig{
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			Retryable:  temporary,
		},
	}, factory, logger)

	return registry, nil
}

// handles resolves one generation handle per purpose used by an interview.
type handles struct {
	evaluation     *ai.Handle
	conversation   *ai.Handle
	recommendation *ai.Handle
	report         *ai.Handle
}

func resolveHandles(ctx context.Context, registry *ai.Registry) (*handles, error) {
	var h handles
	for purpose, target := range map[ai.Purpose]**ai.Handle{
		ai.PurposeEvaluation:     &h.evaluation,
		ai.PurposeConversation:   &h.conversation,
		ai.PurposeRecommendation: &h.recommendation,
		ai.PurposeReport:         &h.report,
	} {
		handle, err := registry.Get(ctx, purpose)
		if err != nil {
			return nil, fmt.Errorf("%s handle: %w", purpose, err)
		}
		*target = handle
	}
	return &h, nil
}
