package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talent-screener/internal/ai"
	"github.com/spigell/talent-screener/internal/utils"
)

const (
	defaultModel = "gemini-2.5-flash"
	// Quota errors asking to wait longer than this are not worth a retry.
	maxQuotaDelay = 10 * time.Second
	previewLength = 200
)

var retryDelayPattern = regexp.MustCompile(`(?i)(?:retry\s*(?:after|in)?|retryDelay"?:?\s*"?)\s*(\d+(?:\.\d+)?)\s*s`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator sends single-turn prompts to the Gemini API.
type Generator struct {
	chats  chatCreator
	model  string
	logger *zap.Logger
	// set once the model rejected presence/frequency penalties.
	noPenalties atomic.Bool
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{chats: genaiChats{chats: client.Chats}, model: model, logger: logger}, nil
}

// Generate sends the prompt to Gemini and returns the concatenated text parts.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utils.Runes(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, previewLength)),
	)

	cfg := buildConfig(req, !g.noPenalties.Load())
	output, err := g.send(ctx, cfg, prompt)
	if err != nil && hasPenalties(cfg) && penaltyRejected(err) {
		g.logger.Warn("model rejected penalties, retrying without them", zap.String("model", g.model), zap.Error(err))
		g.noPenalties.Store(true)
		output, err = g.send(ctx, buildConfig(req, false), prompt)
	}
	if err != nil {
		return "", err
	}

	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", utils.Runes(output)),
		zap.String("response_preview", utils.TruncateForLog(output, previewLength)),
	)

	return output, nil
}

func (g *Generator) send(ctx context.Context, cfg *genai.GenerateContentConfig, prompt string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, cfg, nil)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := collectText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// buildConfig maps params to the request config. Zero penalties are left
// unset, and all penalties are dropped when withPenalties is false.
func buildConfig(req ai.Request, withPenalties bool) *genai.GenerateContentConfig {
	p := req.Params
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(p.Temperature)),
		TopP:        genai.Ptr(float32(p.TopP)),
	}
	if withPenalties && p.PresencePenalty != 0 {
		cfg.PresencePenalty = genai.Ptr(float32(p.PresencePenalty))
	}
	if withPenalties && p.FrequencyPenalty != 0 {
		cfg.FrequencyPenalty = genai.Ptr(float32(p.FrequencyPenalty))
	}
	if p.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(p.MaxTokens)
	}

	if system := strings.TrimSpace(req.System); system != "" {
		cfg.SystemInstruction = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: system}},
		}
	}

	return cfg
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

func hasPenalties(cfg *genai.GenerateContentConfig) bool {
	return cfg.PresencePenalty != nil || cfg.FrequencyPenalty != nil
}

// penaltyRejected reports a 400 from a model that does not support penalties.
func penaltyRejected(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "penalty")
}

// IsTemporary reports whether err is a transient Gemini failure worth retrying.
func IsTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Code {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case http.StatusTooManyRequests:
		delay, ok := retryDelay(apiErr.Message)
		return !ok || delay <= maxQuotaDelay
	default:
		return false
	}
}

func retryDelay(message string) (time.Duration, bool) {
	match := retryDelayPattern.FindStringSubmatch(message)
	if len(match) < 2 {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}
