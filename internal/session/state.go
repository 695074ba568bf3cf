package session

import (
	"errors"
	"math"
	"strings"

	"github.com/spigell/talent-screener/internal/assessment"
)

// DefaultMaxQuestions is the hard cap on questions asked in one session.
const DefaultMaxQuestions = 15

var (
	ErrTerminal          = errors.New("session is already finished")
	ErrDuplicateQuestion = errors.New("question was already asked")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrQuestionPending   = errors.New("previous question is still unanswered")
	ErrNoPendingQuestion = errors.New("no question is waiting for an answer")
	ErrCapReached        = errors.New("question limit reached")
)

// Record is one asked question with its answer, score and feedback.
type Record struct {
	Question string
	Answer   string
	Score    float64
	Feedback []string
	Skipped  bool
}

// State is the mutable aggregate of one interview. Records are append-only,
// the terminal flag is never reset and confidence stays within the
// configured bounds.
type State struct {
	records []Record
	asked   map[string]struct{}
	pending string

	maxQuestions int
	thresholds   assessment.Thresholds

	confidence float64
	decision   assessment.Decision
	reasoning  string
	terminal   bool
}

func NewState(maxQuestions int, thresholds assessment.Thresholds) *State {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	return &State{
		asked:        make(map[string]struct{}),
		maxQuestions: maxQuestions,
		thresholds:   thresholds,
		decision:     assessment.NeedMoreInformation,
	}
}

// Advance makes question the pending one. Each question text may be asked once.
func (s *State) Advance(question string) error {
	question = strings.TrimSpace(question)
	switch {
	case s.terminal:
		return ErrTerminal
	case s.pending != "":
		return ErrQuestionPending
	case s.CapReached():
		return ErrCapReached
	case question == "":
		return ErrEmptyQuestion
	}
	if _, ok := s.asked[question]; ok {
		return ErrDuplicateQuestion
	}

	s.asked[question] = struct{}{}
	s.pending = question
	return nil
}

// Pending returns the question waiting for an answer.
func (s *State) Pending() (string, bool) {
	return s.pending, s.pending != ""
}

// RecordAnswer stores the answer to the pending question. Score is clamped to [0,1].
func (s *State) RecordAnswer(answer string, score float64, feedback []string) error {
	if math.IsNaN(score) {
		score = 0
	}
	return s.record(Record{
		Answer:   answer,
		Score:    math.Max(0, math.Min(score, 1)),
		Feedback: feedback,
	})
}

// RecordSkip stores the skip sentinel with a zero score.
func (s *State) RecordSkip() error {
	return s.record(Record{Answer: assessment.SkippedAnswer, Skipped: true})
}

func (s *State) record(r Record) error {
	if s.terminal {
		return ErrTerminal
	}
	if s.pending == "" {
		return ErrNoPendingQuestion
	}

	r.Question = s.pending
	s.records = append(s.records, r)
	s.pending = ""
	return nil
}

// Apply stores an assessment outcome. An outcome that needs no more questions
// finishes the session.
func (s *State) Apply(o assessment.Outcome) {
	if s.terminal {
		return
	}
	s.confidence = s.thresholds.Clamp(o.Confidence)
	s.decision = o.Decision
	s.reasoning = o.Reasoning
	if !o.NeedMore {
		s.terminal = true
		s.pending = ""
	}
}

// Track updates confidence without touching the decision.
func (s *State) Track(confidence float64) {
	if s.terminal {
		return
	}
	s.confidence = s.thresholds.Clamp(confidence)
}

// Finalize ends the session. An empty decision keeps the current one.
func (s *State) Finalize(decision assessment.Decision, reasoning string) {
	if s.terminal {
		return
	}
	if decision != "" {
		s.decision = decision
	}
	if reasoning != "" {
		s.reasoning = reasoning
	}
	s.terminal = true
	s.pending = ""
}

// CapReached reports whether the question limit has been used up.
func (s *State) CapReached() bool {
	return len(s.records) >= s.maxQuestions
}

// Asked is the number of questions answered or skipped.
func (s *State) Asked() int {
	return len(s.records)
}

func (s *State) MaxQuestions() int {
	return s.maxQuestions
}

func (s *State) Confidence() float64 {
	return s.confidence
}

func (s *State) Decision() assessment.Decision {
	return s.decision
}

func (s *State) Reasoning() string {
	return s.reasoning
}

func (s *State) Terminal() bool {
	return s.terminal
}

// Records returns a copy of the recorded history.
func (s *State) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Questions returns the recorded question texts in order.
func (s *State) Questions() []string {
	questions := make([]string, 0, len(s.records))
	for _, r := range s.records {
		questions = append(questions, r.Question)
	}
	return questions
}

// Results converts the history into confidence engine input.
func (s *State) Results() []assessment.Result {
	results := make([]assessment.Result, 0, len(s.records))
	for _, r := range s.records {
		results = append(results, assessment.Result{Question: r.Question, Answer: r.Answer, Score: r.Score, Skipped: r.Skipped})
	}
	return results
}
