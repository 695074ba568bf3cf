package assessment

import "fmt"

// Rule names reported in Outcome.Rule.
const (
	RuleSkips       = "skips"
	RulePoorAnswers = "poor-answers"
	RuleExcellence  = "excellence"
	RuleConfidence  = "confidence"
)

const (
	excellenceCount   = 3
	strongHireAverage = 0.85
	hireAverage       = 0.75
)

// Snapshot is the aggregated input every decision rule sees.
type Snapshot struct {
	Stats      Stats
	Confidence float64
	Thresholds Thresholds
}

// Verdict is a terminal decision produced by a rule.
type Verdict struct {
	Decision  Decision
	Reasoning string
}

// Rule is a single step of the decision precedence. Rules run in order and
// the first one that applies ends the assessment.
type Rule interface {
	Name() string
	Apply(s Snapshot) (Verdict, bool)
}

// DefaultRules returns the decision precedence: skips, poor answers,
// consistent excellence, then accumulated confidence.
func DefaultRules() []Rule {
	return []Rule{
		skipRule{},
		poorAnswersRule{},
		excellenceRule{},
		confidenceRule{},
	}
}

type skipRule struct{}

func (skipRule) Name() string { return RuleSkips }

func (skipRule) Apply(s Snapshot) (Verdict, bool) {
	if s.Stats.Skipped < s.Thresholds.SkipThreshold {
		return Verdict{}, false
	}
	return Verdict{
		Decision:  NoHire,
		Reasoning: "Too many skipped questions indicates lack of knowledge or preparation",
	}, true
}

type poorAnswersRule struct{}

func (poorAnswersRule) Name() string { return RulePoorAnswers }

func (poorAnswersRule) Apply(s Snapshot) (Verdict, bool) {
	if s.Stats.Poor < s.Thresholds.PoorAnswerThreshold {
		return Verdict{}, false
	}
	return Verdict{
		Decision:  NoHire,
		Reasoning: "Multiple poor answers indicate insufficient technical knowledge",
	}, true
}

type excellenceRule struct{}

func (excellenceRule) Name() string { return RuleExcellence }

func (excellenceRule) Apply(s Snapshot) (Verdict, bool) {
	if s.Stats.Perfect < excellenceCount || s.Stats.Average < strongHireAverage {
		return Verdict{}, false
	}
	return Verdict{
		Decision:  StrongHire,
		Reasoning: "Consistent excellent performance across multiple questions",
	}, true
}

type confidenceRule struct{}

func (confidenceRule) Name() string { return RuleConfidence }

func (confidenceRule) Apply(s Snapshot) (Verdict, bool) {
	if s.Confidence < s.Thresholds.CompletionThreshold {
		return Verdict{}, false
	}

	decision := LeanHire
	switch {
	case s.Stats.Average >= strongHireAverage:
		decision = StrongHire
	case s.Stats.Average >= hireAverage:
		decision = Hire
	}

	return Verdict{
		Decision:  decision,
		Reasoning: fmt.Sprintf("Sufficient confidence reached with average score of %.1f%%", s.Stats.Average*100),
	}, true
}
