package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/candidate"
	"github.com/spigell/talent-screener/internal/recommendation"
	"github.com/spigell/talent-screener/internal/resume"
	"github.com/spigell/talent-screener/internal/session"
)

// Entry is one question of the technical assessment section. Score is the
// display percentage; ScoreValue keeps the exact score for re-assessment.
type Entry struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Score      string   `json:"score"`
	ScoreValue *float64 `json:"score_value,omitempty"`
	Skipped    bool     `json:"skipped,omitempty"`
	Feedback   []string `json:"feedback,omitempty"`
}

// Report is the persisted outcome of an interview.
type Report struct {
	ReportID            string               `json:"report_id"`
	GeneratedAt         time.Time            `json:"generated_at"`
	Candidate           candidate.Profile    `json:"candidate"`
	TechnicalAssessment []Entry              `json:"technical_assessment"`
	QuestionsCompleted  int                  `json:"questions_completed"`
	AverageScore        string               `json:"average_score"`
	HighestScore        string               `json:"highest_score"`
	Decision            assessment.Decision  `json:"decision"`
	ConfidenceReasoning string               `json:"confidence_reasoning"`
	RecommendationLabel recommendation.Label `json:"recommendation_label"`
	Recommendation      string               `json:"recommendation"`
	GeneratedFallback   bool                 `json:"recommendation_fallback"`
	DetailedFeedback    string               `json:"detailed_feedback"`
	Resume              *resume.Assessment   `json:"resume,omitempty"`
}

// Input gathers everything a report is built from.
type Input struct {
	ID               string
	GeneratedAt      time.Time
	Profile          candidate.Profile
	Records          []session.Record
	Decision         assessment.Decision
	Reasoning        string
	Recommendation   recommendation.Recommendation
	DetailedFeedback string
	Resume           *resume.Assessment
}

func Build(in Input) *Report {
	entries := make([]Entry, 0, len(in.Records))
	results := make([]assessment.Result, 0, len(in.Records))
	highest := 0.0
	for _, r := range in.Records {
		score := r.Score
		entries = append(entries, Entry{
			Question:   r.Question,
			Answer:     r.Answer,
			Score:      FormatPercent(score),
			ScoreValue: &score,
			Skipped:    r.Skipped,
			Feedback:   r.Feedback,
		})
		results = append(results, assessment.Result{Question: r.Question, Answer: r.Answer, Score: r.Score, Skipped: r.Skipped})
		highest = math.Max(highest, r.Score)
	}

	return &Report{
		ReportID:            in.ID,
		GeneratedAt:         in.GeneratedAt.UTC().Truncate(time.Second),
		Candidate:           in.Profile,
		TechnicalAssessment: entries,
		QuestionsCompleted:  len(entries),
		AverageScore:        FormatPercent(assessment.Summarize(results).Average),
		HighestScore:        FormatPercent(highest),
		Decision:            in.Decision,
		ConfidenceReasoning: in.Reasoning,
		RecommendationLabel: in.Recommendation.Label,
		Recommendation:      in.Recommendation.Text,
		GeneratedFallback:   in.Recommendation.Fallback,
		DetailedFeedback:    in.DetailedFeedback,
		Resume:              in.Resume,
	}
}

// JSON renders the report with indentation.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// Parse reads a JSON report and checks every score is a percentage.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if _, err := r.Results(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Results recovers the question, answer and score triples in asked order.
// The exact score_value wins over the rounded percentage when present.
func (r *Report) Results() ([]assessment.Result, error) {
	results := make([]assessment.Result, 0, len(r.TechnicalAssessment))
	for i, entry := range r.TechnicalAssessment {
		score, err := entry.score()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		results = append(results, assessment.Result{
			Question: entry.Question,
			Answer:   entry.Answer,
			Score:    score,
			Skipped:  entry.Skipped,
		})
	}
	return results, nil
}

func (e Entry) score() (float64, error) {
	percent, err := ParsePercent(e.Score)
	if err != nil {
		return 0, err
	}
	if e.ScoreValue == nil {
		return percent, nil
	}

	value := *e.ScoreValue
	if math.IsNaN(value) || value < 0 || value > 1 {
		return 0, fmt.Errorf("score value %v is out of range", value)
	}
	if math.Abs(value-percent) > 0.0005+1e-9 {
		return 0, fmt.Errorf("score value %v does not match %q", value, e.Score)
	}
	return value, nil
}

// FormatPercent renders a [0,1] score as a percentage with one decimal.
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// ParsePercent reverses FormatPercent at 0.1% precision.
func ParsePercent(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasSuffix(trimmed, "%") {
		return 0, fmt.Errorf("score %q is not a percentage", s)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")), 64)
	if err != nil {
		return 0, fmt.Errorf("score %q: %w", s, err)
	}
	if value < 0 || value > 100 {
		return 0, errors.New("score " + strconv.Quote(s) + " is out of range")
	}
	return math.Round(value*10) / 1000, nil
}
