package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "embed"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/candidate"
	"github.com/spigell/talent-screener/internal/utils"
	"go.uber.org/zap"
)

// Label is the hiring recommendation headline.
type Label string

const (
	StrongHire Label = "Strong Hire"
	Hire       Label = "Hire"
	Hold       Label = "Hold - Need More Information"
	NoHire     Label = "No Hire"
)

const (
	defaultMaxLogLength = 200
	strongAreaScore     = 0.7
)

// RequiredSections must all appear in a generated recommendation.
var RequiredSections = []string{
	"RECOMMENDATION:",
	"JUSTIFICATION:",
	"KEY STRENGTHS:",
	"AREAS FOR IMPROVEMENT:",
	"SUGGESTED NEXT STEPS:",
}

// labelPrefixes is checked against the start of the header value, with
// "hire" last so it never shadows the longer labels.
var labelPrefixes = []struct {
	prefix string
	label  Label
}{
	{"strong hire", StrongHire},
	{"no hire", NoHire},
	{"hold", Hold},
	{"need more information", Hold},
	{"hire", Hire},
}

//go:embed prompt.md
var promptTemplate string

type completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Recommendation is the final five-section hiring write-up.
type Recommendation struct {
	Label    Label
	Text     string
	Fallback bool
}

// Synthesizer writes recommendations through a generation call and degrades
// to the deterministic template on any failure.
type Synthesizer struct {
	gen       completer
	logger    *zap.Logger
	maxLogLen int
}

func NewSynthesizer(gen completer, logger *zap.Logger, maxLogLength int) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Synthesizer{gen: gen, logger: logger, maxLogLen: maxLogLength}
}

// Recommend never fails; malformed or missing generated text yields Fallback.
func (s *Synthesizer) Recommend(ctx context.Context, profile candidate.Profile, results []assessment.Result) Recommendation {
	average := assessment.Summarize(results).Average

	text, err := s.generate(ctx, profile, results, average)
	if err != nil {
		s.logger.Warn("using fallback recommendation", zap.Error(err))
		return Fallback(average, profile)
	}

	label, ok := ParseLabel(text)
	if !ok {
		label = ladder(average)
	}
	return Recommendation{Label: label, Text: strings.TrimSpace(text)}
}

func (s *Synthesizer) generate(ctx context.Context, profile candidate.Profile, results []assessment.Result, average float64) (string, error) {
	if s.gen == nil {
		return "", errors.New("no generator configured")
	}

	prompt, err := buildPrompt(profile, results, average)
	if err != nil {
		return "", err
	}

	s.logger.Debug("recommendation request",
		zap.Int("prompt_length", utils.Runes(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	text, err := s.gen.Complete(ctx, "", prompt)
	if err != nil {
		return "", err
	}

	s.logger.Debug("recommendation response",
		zap.Int("response_length", utils.Runes(text)),
		zap.String("response_preview", utils.TruncateForLog(text, s.maxLogLen)),
	)

	if missing := MissingSections(text); len(missing) > 0 {
		return "", fmt.Errorf("recommendation is missing sections %s", strings.Join(missing, ", "))
	}
	return text, nil
}

// MissingSections lists required headers absent from text.
func MissingSections(text string) []string {
	var missing []string
	for _, section := range RequiredSections {
		if !strings.Contains(text, section) {
			missing = append(missing, section)
		}
	}
	return missing
}

// ParseLabel reads the label that starts the value of the RECOMMENDATION:
// header, either on the header line or on the next non-empty line.
func ParseLabel(text string) (Label, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		idx := strings.Index(line, RequiredSections[0])
		if idx == -1 {
			continue
		}

		value := trimLabel(line[idx+len(RequiredSections[0]):])
		for j := i + 1; value == "" && j < len(lines); j++ {
			value = trimLabel(lines[j])
		}
		return matchLabel(value)
	}
	return "", false
}

func trimLabel(s string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(s), " \t*_[(\"'`"))
}

func matchLabel(value string) (Label, bool) {
	for _, lp := range labelPrefixes {
		if strings.HasPrefix(value, lp.prefix) {
			return lp.label, true
		}
	}
	return "", false
}

func buildPrompt(profile candidate.Profile, results []assessment.Result, average float64) (string, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate profile: %w", err)
	}

	strong := 0
	for _, r := range results {
		if r.Score >= strongAreaScore {
			strong++
		}
	}

	replacer := strings.NewReplacer(
		"{{PROFILE_JSON}}", string(profileJSON),
		"{{AVERAGE}}", fmt.Sprintf("%.1f%%", average*100),
		"{{ANSWERED}}", strconv.Itoa(len(results)),
		"{{STRONG}}", strconv.Itoa(strong),
		"{{WEAK}}", strconv.Itoa(len(results)-strong),
	)
	return replacer.Replace(promptTemplate), nil
}
