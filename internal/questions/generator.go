package questions

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "embed"

	"github.com/spigell/talent-screener/internal/utils"
	"go.uber.org/zap"
)

// InitialCount is the size of the opening question ladder.
const InitialCount = 5

const (
	defaultMaxLogLength = 200
	noFocusAreas        = "general technical knowledge"
	differInstruction   = "IMPORTANT: Question must be substantially different from previous questions!"
)

// ErrNoQuestions is returned when the opening ladder cannot be produced.
var ErrNoQuestions = errors.New("no questions generated")

var (
	//go:embed prompts/initial.md
	initialTemplate string
	//go:embed prompts/focused.md
	focusedTemplate string

	questionLine = regexp.MustCompile(`(?i)^question\s*\d+\s*[:.)]\s*`)
)

type completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Generator produces interview questions in a persona voice.
type Generator struct {
	gen       completer
	system    string
	logger    *zap.Logger
	maxLogLen int
}

func New(gen completer, system string, logger *zap.Logger, maxLogLength int) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Generator{
		gen:       gen,
		system:    system,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Initial returns up to five questions of increasing difficulty.
// Lines without a "Question N:" prefix are discarded.
func (g *Generator) Initial(ctx context.Context, techStack []string) ([]string, error) {
	prompt := strings.ReplaceAll(initialTemplate, "{{TECH_STACK}}", strings.Join(techStack, ", "))

	raw, err := g.complete(ctx, "initial questions", prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoQuestions, err)
	}

	questions := ParseQuestions(raw)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: response contained no question lines", ErrNoQuestions)
	}

	g.logger.Info("initial questions generated", zap.Int("count", len(questions)))
	return questions, nil
}

// Focused asks for one new question steered by focus areas. A near duplicate
// of a previous question triggers exactly one retry whose result is accepted.
func (g *Generator) Focused(ctx context.Context, techStack, focusAreas, previous []string) (string, error) {
	prompt := buildFocusedPrompt(techStack, focusAreas, previous)

	raw, err := g.complete(ctx, "focused question", prompt)
	if err != nil {
		return "", err
	}
	question := cleanQuestion(raw)

	if question == "" || SimilarToAny(question, previous) {
		g.logger.Info("focused question too similar to previous ones, retrying",
			zap.String("question", utils.TruncateForLog(question, g.maxLogLen)),
		)

		raw, err = g.complete(ctx, "focused question retry", prompt+"\n"+differInstruction)
		if err != nil {
			return "", err
		}
		question = cleanQuestion(raw)
	}

	if question == "" {
		return "", errors.New("empty focused question")
	}
	return question, nil
}

func (g *Generator) complete(ctx context.Context, step, prompt string) (string, error) {
	if g.gen == nil {
		return "", errors.New("no generator configured")
	}

	g.logger.Debug("question request",
		zap.String("kind", step),
		zap.Int("prompt_length", utils.Runes(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	raw, err := g.gen.Complete(ctx, g.system, prompt)
	if err != nil {
		g.logger.Warn("question generation failed", zap.String("kind", step), zap.Error(err))
		return "", err
	}

	g.logger.Debug("question response",
		zap.String("kind", step),
		zap.Int("response_length", utils.Runes(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)
	return raw, nil
}

// ParseQuestions keeps lines shaped like "Question N: text", strips the
// prefix and returns at most InitialCount distinct questions.
func ParseQuestions(raw string) []string {
	var (
		questions []string
		seen      = make(map[string]struct{})
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "*# ")
		loc := questionLine.FindStringIndex(line)
		if loc == nil {
			continue
		}

		text := strings.TrimSpace(strings.Trim(line[loc[1]:], "*"))
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}

		questions = append(questions, text)
		if len(questions) == InitialCount {
			break
		}
	}
	return questions
}

func buildFocusedPrompt(techStack, focusAreas, previous []string) string {
	focus := noFocusAreas
	if len(focusAreas) > 0 {
		focus = strings.Join(focusAreas, ", ")
	}

	listed := make([]string, 0, len(previous))
	for i, q := range previous {
		listed = append(listed, fmt.Sprintf("%d. %s", i+1, q))
	}

	prompt := strings.ReplaceAll(focusedTemplate, "{{TECH_STACK}}", strings.Join(techStack, ", "))
	prompt = strings.ReplaceAll(prompt, "{{FOCUS_AREAS}}", focus)
	prompt = strings.ReplaceAll(prompt, "{{PREVIOUS_QUESTIONS}}", strings.Join(listed, "\n"))
	return strings.TrimSpace(prompt)
}

func cleanQuestion(raw string) string {
	question := strings.Trim(strings.TrimSpace(raw), "*\"")
	if loc := questionLine.FindStringIndex(question); loc != nil {
		question = question[loc[1]:]
	}
	return strings.TrimSpace(question)
}
