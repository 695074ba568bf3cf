package assessment

import (
	"math"

	"go.uber.org/zap"
)

// Decision is the hiring label produced by the confidence engine.
type Decision string

const (
	StrongHire          Decision = "Strong Hire"
	Hire                Decision = "Hire"
	LeanHire            Decision = "Lean Hire"
	NeedMoreInformation Decision = "Need More Information"
	NoHire              Decision = "No Hire"
)

// SkippedAnswer is the answer text shown for a declined question.
const SkippedAnswer = "Skipped"

const (
	perfectScore = 0.9
	goodScore    = 0.7
	poorScore    = 0.6

	baseWeight = 0.7

	// resume consistency below this adds an advisory note to the reasoning.
	resumeNoteThreshold = 0.8
	resumeNote          = "Note: Some inconsistencies found between resume and provided information."

	initialReasoning = "Initial assessment needed"
)

// Thresholds holds every tunable of the confidence engine and resume analysis.
type Thresholds struct {
	PerfectAnswer       float64 `mapstructure:"perfect-answer"`
	GoodAnswer          float64 `mapstructure:"good-answer"`
	PoorAnswer          float64 `mapstructure:"poor-answer"`
	SkipPenalty         float64 `mapstructure:"skip-penalty"`
	MaxConfidence       float64 `mapstructure:"max-confidence"`
	MinConfidence       float64 `mapstructure:"min-confidence"`
	CompletionThreshold float64 `mapstructure:"completion-threshold"`
	SkipThreshold       int     `mapstructure:"skip-threshold"`
	PoorAnswerThreshold int     `mapstructure:"poor-answer-threshold"`

	ResumeMismatchPenalty     float64 `mapstructure:"resume-mismatch-penalty"`
	ResumeMatchBonus          float64 `mapstructure:"resume-match-bonus"`
	SkillMismatchPenalty      float64 `mapstructure:"skill-mismatch-penalty"`
	ExperienceMismatchPenalty float64 `mapstructure:"experience-mismatch-penalty"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PerfectAnswer:       0.15,
		GoodAnswer:          0.08,
		PoorAnswer:          -0.12,
		SkipPenalty:         -0.2,
		MaxConfidence:       0.95,
		MinConfidence:       0.0,
		CompletionThreshold: 0.85,
		SkipThreshold:       3,
		PoorAnswerThreshold: 4,

		ResumeMismatchPenalty:     -0.15,
		ResumeMatchBonus:          0.1,
		SkillMismatchPenalty:      -0.08,
		ExperienceMismatchPenalty: -0.2,
	}
}

// Clamp bounds v to [MinConfidence, MaxConfidence].
func (t Thresholds) Clamp(v float64) float64 {
	return math.Max(t.MinConfidence, math.Min(v, t.MaxConfidence))
}

// Result is one asked question with its recorded answer and score.
// Skipped marks a declined question; the answer text alone never does.
type Result struct {
	Question string
	Answer   string
	Score    float64
	Skipped  bool
}

// ResumeSignal is the optional resume input of an assessment.
type ResumeSignal struct {
	// Consistency is nil when no resume was analysed.
	Consistency *float64
	Findings    []string
}

// ResumeConsistency builds a signal from an analysed resume.
func ResumeConsistency(score float64, findings []string) ResumeSignal {
	return ResumeSignal{Consistency: &score, Findings: findings}
}

func (r ResumeSignal) consistency() float64 {
	if r.Consistency == nil {
		return 1.0
	}
	return *r.Consistency
}

// Stats aggregates a result history.
type Stats struct {
	Answered int
	Skipped  int
	Poor     int
	Good     int
	Perfect  int
	Average  float64
}

func Summarize(results []Result) Stats {
	var (
		stats Stats
		total float64
	)
	for _, r := range results {
		stats.Answered++
		total += r.Score
		if r.Skipped {
			stats.Skipped++
		}
		switch {
		case r.Score >= perfectScore:
			stats.Perfect++
		case r.Score >= goodScore:
			stats.Good++
		case r.Score < poorScore:
			stats.Poor++
		}
	}
	if stats.Answered > 0 {
		stats.Average = total / float64(stats.Answered)
	}
	return stats
}

// Outcome is the result of one confidence assessment.
type Outcome struct {
	Confidence float64
	Decision   Decision
	NeedMore   bool
	FocusAreas []string
	Reasoning  string
	// Rule names the decision rule that fired, empty while assessment continues.
	Rule  string
	Stats Stats
}

// Engine decides whether an interview has gathered enough evidence.
type Engine struct {
	thresholds Thresholds
	rules      []Rule
	logger     *zap.Logger
}

func NewEngine(thresholds Thresholds, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		thresholds: thresholds,
		rules:      DefaultRules(),
		logger:     logger,
	}
}

func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Assess is deterministic for identical inputs and performs no I/O.
func (e *Engine) Assess(results []Result, resume ResumeSignal) Outcome {
	if len(results) == 0 {
		return Outcome{
			Confidence: 0,
			Decision:   NeedMoreInformation,
			NeedMore:   true,
			FocusAreas: []string{},
			Reasoning:  initialReasoning,
		}
	}

	stats := Summarize(results)
	consistency := resume.consistency()

	outcome := Outcome{
		Confidence: e.confidence(stats, consistency),
		Decision:   NeedMoreInformation,
		NeedMore:   true,
		Stats:      stats,
	}

	snapshot := Snapshot{Stats: stats, Confidence: outcome.Confidence, Thresholds: e.thresholds}
	for _, rule := range e.rules {
		verdict, ok := rule.Apply(snapshot)
		if !ok {
			continue
		}
		outcome.Decision = verdict.Decision
		outcome.Reasoning = verdict.Reasoning
		outcome.NeedMore = false
		outcome.Rule = rule.Name()
		break
	}

	if outcome.NeedMore {
		outcome.FocusAreas = DetermineFocusAreas(results)
	}

	if consistency < resumeNoteThreshold && len(resume.Findings) > 0 {
		if outcome.Reasoning != "" {
			outcome.Reasoning += "\n"
		}
		outcome.Reasoning += resumeNote
	}

	e.logger.Debug("confidence assessed",
		zap.Int("answered", stats.Answered),
		zap.Int("skipped", stats.Skipped),
		zap.Int("poor", stats.Poor),
		zap.Int("perfect", stats.Perfect),
		zap.Float64("average", stats.Average),
		zap.Float64("confidence", outcome.Confidence),
		zap.String("decision", string(outcome.Decision)),
		zap.Bool("need_more", outcome.NeedMore),
		zap.String("rule", outcome.Rule),
	)

	return outcome
}

func (e *Engine) confidence(stats Stats, consistency float64) float64 {
	t := e.thresholds
	base := stats.Average * baseWeight * consistency

	adjustment := float64(stats.Perfect)*t.PerfectAnswer +
		float64(stats.Good)*t.GoodAnswer +
		float64(stats.Poor)*t.PoorAnswer +
		float64(stats.Skipped)*t.SkipPenalty

	return t.Clamp(base + adjustment)
}

// FeedbackBand is the short verdict shown to the candidate after each answer.
func FeedbackBand(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent answer"
	case score >= poorScore:
		return "Good answer with room for improvement"
	default:
		return "The answer needs more detail and technical depth"
	}
}
