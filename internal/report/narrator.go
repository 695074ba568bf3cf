package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/utils"
	"go.uber.org/zap"
)

//go:embed feedback.md
var feedbackTemplate string

const defaultMaxLogLength = 200

type completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Narrator writes the detailed feedback section of a report.
type Narrator struct {
	gen       completer
	logger    *zap.Logger
	maxLogLen int
}

func NewNarrator(gen completer, logger *zap.Logger, maxLogLength int) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Narrator{gen: gen, logger: logger, maxLogLen: maxLogLength}
}

// DetailedFeedback asks for a narrative review of the answers and falls back
// to SummarizeResults when generation fails.
func (n *Narrator) DetailedFeedback(ctx context.Context, techStack []string, results []assessment.Result) string {
	if len(results) == 0 {
		return ""
	}

	text, err := n.generate(ctx, techStack, results)
	if err != nil {
		n.logger.Warn("using fallback detailed feedback", zap.Error(err))
		return SummarizeResults(results)
	}
	return text
}

func (n *Narrator) generate(ctx context.Context, techStack []string, results []assessment.Result) (string, error) {
	if n.gen == nil {
		return "", errors.New("no generator configured")
	}

	pairs := make([]string, 0, len(results))
	for _, r := range results {
		pairs = append(pairs, fmt.Sprintf("Q: %s\nA: %s", r.Question, r.Answer))
	}

	prompt := strings.ReplaceAll(feedbackTemplate, "{{ANSWERS}}", strings.Join(pairs, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{TECH_STACK}}", strings.Join(techStack, ", "))

	n.logger.Debug("detailed feedback request",
		zap.Int("prompt_length", utils.Runes(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, n.maxLogLen)),
	)

	text, err := n.gen.Complete(ctx, "", prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty detailed feedback")
	}
	return text, nil
}

// SummarizeResults lists each question with its score and feedback band.
func SummarizeResults(results []assessment.Result) string {
	lines := make([]string, 0, len(results)+1)
	for i, r := range results {
		verdict := assessment.FeedbackBand(r.Score)
		if r.Skipped {
			verdict = "Skipped"
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s): %s", i+1, r.Question, FormatPercent(r.Score), verdict))
	}

	stats := assessment.Summarize(results)
	lines = append(lines, fmt.Sprintf("Answered %d of %d questions with an average score of %s.",
		stats.Answered-stats.Skipped, stats.Answered, FormatPercent(stats.Average)))
	return strings.Join(lines, "\n")
}
