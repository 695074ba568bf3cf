package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "embed"

	"github.com/spigell/talent-screener/internal/utils"
	"go.uber.org/zap"
)

// ErrParse marks a generated evaluation that does not match the expected shape.
var ErrParse = errors.New("unexpected evaluation format")

type completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

type dimension struct {
	key    string
	label  string
	weight float64
}

var dimensions = []dimension{
	{key: "technical_accuracy", label: "Technical Accuracy", weight: 0.4},
	{key: "completeness", label: "Completeness", weight: 0.2},
	{key: "clarity", label: "Clarity", weight: 0.2},
	{key: "best_practices", label: "Best Practices", weight: 0.2},
}

// Evaluation is the scored outcome for one answer.
type Evaluation struct {
	Score    float64
	Feedback []string
	// Fallback is set when the heuristic scorer produced the result.
	Fallback bool
	Raw      string
}

// Evaluator scores answers through a generation call and degrades to FallbackScore.
type Evaluator struct {
	gen       completer
	logger    *zap.Logger
	maxLogLen int
}

func NewEvaluator(gen completer, logger *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		gen:       gen,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Evaluate always returns a usable evaluation. Generation and parse failures
// are logged and answered with the heuristic score.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer string, techStack []string) Evaluation {
	if e.gen == nil {
		return e.fallback(answer, errors.New("no generator configured"))
	}

	prompt := buildPrompt(question, answer, techStack)
	e.logger.Debug("evaluation request",
		zap.Int("prompt_length", utils.Runes(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.gen.Complete(ctx, "", prompt)
	if err != nil {
		return e.fallback(answer, err)
	}

	e.logger.Debug("evaluation response",
		zap.Int("response_length", utils.Runes(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	score, feedback, err := parseResponse(raw)
	if err != nil {
		return e.fallback(answer, err)
	}

	return Evaluation{Score: score, Feedback: feedback, Raw: raw}
}

func (e *Evaluator) fallback(answer string, cause error) Evaluation {
	e.logger.Warn("using fallback evaluation", zap.Error(cause))

	score, feedback := FallbackScore(answer)
	return Evaluation{Score: score, Feedback: feedback, Fallback: true}
}

func buildPrompt(question, answer string, techStack []string) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{QUESTION}}", question)
	prompt = strings.ReplaceAll(prompt, "{{ANSWER}}", answer)
	prompt = strings.ReplaceAll(prompt, "{{TECH_STACK}}", strings.Join(techStack, ", "))
	return prompt
}

// subScore accepts a JSON number or a numeric string such as "85" or "85%".
type subScore float64

func (s *subScore) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(unquoted), "%"))
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) {
		return fmt.Errorf("score %s is not a number", data)
	}
	*s = subScore(value)
	return nil
}

type section struct {
	Score    *subScore `json:"score"`
	Feedback string    `json:"feedback"`
}

func parseResponse(raw string) (float64, []string, error) {
	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonObject(raw)), &data); err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var (
		score    float64
		feedback = make([]string, 0, len(dimensions)+1)
	)
	for _, dim := range dimensions {
		body, ok := data[dim.key]
		if !ok {
			return 0, nil, fmt.Errorf("%w: missing %q", ErrParse, dim.key)
		}

		var sec section
		if err := json.Unmarshal(body, &sec); err != nil {
			return 0, nil, fmt.Errorf("%w: %q: %w", ErrParse, dim.key, err)
		}
		if sec.Score == nil {
			return 0, nil, fmt.Errorf("%w: %q has no score", ErrParse, dim.key)
		}

		value := math.Max(0, math.Min(float64(*sec.Score), 100))
		score += value / 100 * dim.weight
		feedback = append(feedback, fmt.Sprintf("%s: %s", dim.label, strings.TrimSpace(sec.Feedback)))
	}

	var overall string
	if body, ok := data["overall_feedback"]; ok {
		// a non-string overall comment is dropped, the scores still stand.
		_ = json.Unmarshal(body, &overall)
	}
	feedback = append(feedback, "Overall: "+strings.TrimSpace(overall))

	return score, feedback, nil
}

// jsonObject cuts the outermost {...} out of a reply that may wrap it in
// markdown fences or prose.
func jsonObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return strings.TrimSpace(raw)
	}
	return raw[start : end+1]
}
