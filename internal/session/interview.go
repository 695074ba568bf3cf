package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/candidate"
	"github.com/spigell/talent-screener/internal/logger"
	"go.uber.org/zap"
)

var (
	ErrEmptyAnswer     = errors.New("please provide an answer before submitting")
	ErrNothingAnswered = errors.New("at least one question must be answered")
)

const (
	capReasoning        = "Question limit reached"
	noFollowUpReasoning = "Unable to generate a follow-up question"
)

// Evaluator scores a single answer.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string, techStack []string) assessment.Evaluation
}

// QuestionSource produces the opening ladder and focused follow-ups.
type QuestionSource interface {
	Initial(ctx context.Context, techStack []string) ([]string, error)
	Focused(ctx context.Context, techStack, focusAreas, previous []string) (string, error)
}

// Config bounds an interview.
type Config struct {
	MaxQuestions int                   `mapstructure:"max-questions"`
	Thresholds   assessment.Thresholds `mapstructure:"-"`
}

// Feedback is returned to the candidate after each answer.
type Feedback struct {
	Score    float64
	Band     string
	Lines    []string
	Fallback bool
}

// Interview drives one candidate through ask, answer, assess and follow-up.
// It is not safe for concurrent use.
type Interview struct {
	id        string
	profile   candidate.Profile
	resume    assessment.ResumeSignal
	state     *State
	engine    *assessment.Engine
	evaluator Evaluator
	questions QuestionSource
	logger    *zap.Logger

	queue   []string
	outcome assessment.Outcome
}

func New(profile candidate.Profile, resume assessment.ResumeSignal, evaluator Evaluator, questions QuestionSource, cfg Config, log *zap.Logger) *Interview {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()

	return &Interview{
		id:        id,
		profile:   profile,
		resume:    resume,
		state:     NewState(cfg.MaxQuestions, cfg.Thresholds),
		engine:    assessment.NewEngine(cfg.Thresholds, log),
		evaluator: evaluator,
		questions: questions,
		logger:    logger.WithSession(log, id),
		outcome:   assessment.Outcome{Decision: assessment.NeedMoreInformation, NeedMore: true},
	}
}

func (i *Interview) ID() string {
	return i.id
}

func (i *Interview) Profile() candidate.Profile {
	return i.profile
}

func (i *Interview) Resume() assessment.ResumeSignal {
	return i.resume
}

// State exposes the session aggregate for reporting.
func (i *Interview) State() *State {
	return i.state
}

// Outcome is the latest confidence assessment.
func (i *Interview) Outcome() assessment.Outcome {
	return i.outcome
}

// Start generates the opening ladder and returns the first question.
// Failing to produce it is fatal to the interview.
func (i *Interview) Start(ctx context.Context) (string, error) {
	if i.state.Asked() > 0 || i.queue != nil {
		return "", errors.New("interview already started")
	}

	initial, err := i.questions.Initial(ctx, i.profile.TechStack)
	if err != nil {
		return "", err
	}
	i.queue = initial

	i.logger.Info("interview started",
		zap.Int("initial_questions", len(initial)),
		zap.Strings("tech_stack", i.profile.TechStack),
	)

	question, ok, err := i.Next(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("no usable initial question")
	}
	return question, nil
}

// Current returns the question awaiting an answer.
func (i *Interview) Current() (string, bool) {
	return i.state.Pending()
}

// Submit evaluates and records an answer to the current question, then reassesses.
func (i *Interview) Submit(ctx context.Context, answer string) (Feedback, error) {
	question, ok := i.state.Pending()
	if !ok {
		if i.state.Terminal() {
			return Feedback{}, ErrTerminal
		}
		return Feedback{}, ErrNoPendingQuestion
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Feedback{}, ErrEmptyAnswer
	}

	evaluation := i.evaluator.Evaluate(ctx, question, answer, i.profile.TechStack)
	if err := i.state.RecordAnswer(answer, evaluation.Score, evaluation.Feedback); err != nil {
		return Feedback{}, err
	}

	i.logger.Info("answer recorded",
		zap.Int("question", i.state.Asked()),
		zap.Float64("score", evaluation.Score),
		zap.Bool("fallback", evaluation.Fallback),
	)

	i.reassess()

	return Feedback{
		Score:    evaluation.Score,
		Band:     assessment.FeedbackBand(evaluation.Score),
		Lines:    evaluation.Feedback,
		Fallback: evaluation.Fallback,
	}, nil
}

// Skip records the current question as skipped. Reaching the skip threshold
// finishes the session with No Hire, even inside the opening ladder.
func (i *Interview) Skip() error {
	if err := i.state.RecordSkip(); err != nil {
		return err
	}

	i.logger.Info("question skipped", zap.Int("question", i.state.Asked()))
	i.reassess()
	return nil
}

// reassess runs the confidence engine. While opening questions remain only
// the skip rule may end the session; the rest of the precedence applies once
// the ladder is exhausted.
func (i *Interview) reassess() {
	outcome := i.engine.Assess(i.state.Results(), i.resume)
	i.outcome = outcome

	if len(i.queue) > 0 && outcome.Rule != assessment.RuleSkips {
		i.state.Track(outcome.Confidence)
		return
	}

	i.state.Apply(outcome)
	if i.state.Terminal() {
		i.logger.Info("assessment complete",
			zap.String("decision", string(i.state.Decision())),
			zap.String("rule", outcome.Rule),
			zap.Int("questions", i.state.Asked()),
		)
	}
}

// Next moves to the following question: remaining opening questions first,
// then focused follow-ups. It returns false once the session is finished.
func (i *Interview) Next(ctx context.Context) (string, bool, error) {
	if question, ok := i.state.Pending(); ok {
		return question, true, nil
	}
	if i.state.Terminal() {
		return "", false, nil
	}
	if i.state.CapReached() {
		i.finish(capReasoning)
		return "", false, nil
	}

	for len(i.queue) > 0 {
		question := i.queue[0]
		i.queue = i.queue[1:]

		err := i.state.Advance(question)
		if errors.Is(err, ErrDuplicateQuestion) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		return question, true, nil
	}

	question, err := i.questions.Focused(ctx, i.profile.TechStack, i.outcome.FocusAreas, i.state.Questions())
	if err == nil {
		err = i.state.Advance(question)
	}
	if err != nil {
		i.logger.Warn("follow-up question unavailable, finishing interview", zap.Error(err))
		i.finish(noFollowUpReasoning)
		return "", false, nil
	}

	i.logger.Debug("focused question", zap.Strings("focus_areas", i.outcome.FocusAreas))
	return question, true, nil
}

func (i *Interview) finish(reasoning string) {
	if i.outcome.Reasoning != "" {
		reasoning = fmt.Sprintf("%s\n%s", reasoning, i.outcome.Reasoning)
	}
	i.state.Finalize("", reasoning)
	i.logger.Info("interview finished",
		zap.String("decision", string(i.state.Decision())),
		zap.String("reasoning", reasoning),
	)
}

// CompleteEarly ends the interview on the candidate's request. It runs one
// assessment over the current answers and takes its decision as final
// without computing follow-up focus.
func (i *Interview) CompleteEarly() (assessment.Outcome, error) {
	if i.state.Terminal() {
		return i.outcome, ErrTerminal
	}
	if i.state.Asked() == 0 {
		return assessment.Outcome{}, ErrNothingAnswered
	}

	outcome := i.engine.Assess(i.state.Results(), i.resume)
	outcome.NeedMore = false
	outcome.FocusAreas = nil

	i.outcome = outcome
	i.state.Apply(outcome)

	i.logger.Info("interview completed early",
		zap.String("decision", string(outcome.Decision)),
		zap.Int("questions", i.state.Asked()),
	)
	return outcome, nil
}
