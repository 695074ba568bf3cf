package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spigell/talent-screener/internal/ai"
	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/candidate"
	"github.com/spigell/talent-screener/internal/recommendation"
	"github.com/spigell/talent-screener/internal/report"
	"github.com/spigell/talent-screener/internal/session"

	"go.uber.org/zap"
)

func savedReport(records []session.Record) *report.Report {
	return report.Build(report.Input{
		ID:          "r-1",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Profile: candidate.Profile{
			Name:      "Ada Lovelace",
			TechStack: []string{"Go", "PostgreSQL"},
		},
		Records:  records,
		Decision: assessment.NeedMoreInformation,
	})
}

func TestRescoreSkipsEndInNoHire(t *testing.T) {
	rep := savedReport([]session.Record{
		{Question: "q1", Answer: assessment.SkippedAnswer, Skipped: true},
		{Question: "q2", Answer: assessment.SkippedAnswer, Skipped: true},
		{Question: "q3", Answer: assessment.SkippedAnswer, Skipped: true},
	})

	outcome, err := rescore(rep, assessment.DefaultThresholds(), zap.NewNop())
	if err != nil {
		t.Fatalf("rescore returned error: %v", err)
	}

	if outcome.Decision != assessment.NoHire {
		t.Fatalf("expected No Hire, got %q", outcome.Decision)
	}
	if rep.Decision != assessment.NoHire {
		t.Fatalf("report decision not updated: %q", rep.Decision)
	}
	if rep.RecommendationLabel != recommendation.NoHire || !rep.GeneratedFallback {
		t.Fatalf("expected fallback No Hire recommendation, got %q (fallback=%v)", rep.RecommendationLabel, rep.GeneratedFallback)
	}
	if rep.ConfidenceReasoning == "" {
		t.Fatalf("expected reasoning to be filled")
	}
}

func TestRescoreRoundTripsThroughJSON(t *testing.T) {
	rep := savedReport([]session.Record{
		{Question: "q1", Answer: "a1", Score: 0.9},
		{Question: "q2", Answer: "a2", Score: 0.8},
	})

	data, err := rep.JSON()
	if err != nil {
		t.Fatalf("encoding report: %v", err)
	}
	parsed, err := report.Parse(data)
	if err != nil {
		t.Fatalf("parsing report: %v", err)
	}

	outcome, err := rescore(parsed, assessment.DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("rescore returned error: %v", err)
	}

	if got := report.FormatPercent(outcome.Stats.Average); got != "85.0%" {
		t.Fatalf("expected average 85.0%%, got %s", got)
	}
	if parsed.RecommendationLabel != recommendation.StrongHire {
		t.Fatalf("expected Strong Hire recommendation, got %q", parsed.RecommendationLabel)
	}

	var out bytes.Buffer
	printRescore(&out, parsed, outcome)
	if !strings.Contains(out.String(), "Candidate:  Ada Lovelace") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
}

func TestRescoreUsesExactScores(t *testing.T) {
	rep := savedReport([]session.Record{
		{Question: "q1", Answer: "a1", Score: 0.8996},
		{Question: "q2", Answer: "a2", Score: 0.8996},
		{Question: "q3", Answer: "a3", Score: 0.8996},
		{Question: "q4", Answer: "a4", Score: 0.6963},
	})

	data, err := rep.JSON()
	if err != nil {
		t.Fatalf("encoding report: %v", err)
	}
	parsed, err := report.Parse(data)
	if err != nil {
		t.Fatalf("parsing report: %v", err)
	}

	outcome, err := rescore(parsed, assessment.DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("rescore returned error: %v", err)
	}

	if outcome.Stats.Perfect != 0 {
		t.Fatalf("expected no perfect answers, got %d", outcome.Stats.Perfect)
	}
	if outcome.Decision != assessment.NeedMoreInformation || !outcome.NeedMore {
		t.Fatalf("expected assessment to continue, got %q (need more=%v)", outcome.Decision, outcome.NeedMore)
	}
	if outcome.Confidence >= 0.85 {
		t.Fatalf("expected confidence below completion threshold, got %v", outcome.Confidence)
	}
}

func TestRescoreRejectsBrokenScores(t *testing.T) {
	rep := savedReport(nil)
	rep.TechnicalAssessment = []report.Entry{{Question: "q", Answer: "a", Score: "high"}}

	if _, err := rescore(rep, assessment.DefaultThresholds(), nil); err == nil {
		t.Fatalf("expected error for a non-percentage score")
	}
}

func TestNewRegistryProviders(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *AIConfig
		wantErr bool
	}{
		{name: "missing config", cfg: nil, wantErr: true},
		{name: "unknown provider", cfg: &AIConfig{Provider: "llama"}, wantErr: true},
		{name: "gemini by default", cfg: &AIConfig{}},
		{name: "groq alias", cfg: &AIConfig{Provider: "Groq"}},
		{
			name: "unknown profile key",
			cfg: &AIConfig{Provider: "gemini", Profiles: map[string]map[string]any{
				"evaluation": {"warmth": 1},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRegistry(tt.cfg, zap.NewNop())
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveHandlesPerPurpose(t *testing.T) {
	registry, err := newRegistry(&AIConfig{
		Provider: "openai",
		OpenAI:   &OpenAIConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"},
		Profiles: map[string]map[string]any{"report": {"temperature": "0.1"}},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("newRegistry: %v", err)
	}

	h, err := resolveHandles(context.Background(), registry)
	if err != nil {
		t.Fatalf("resolveHandles: %v", err)
	}

	if h.evaluation.Purpose() != ai.PurposeEvaluation || h.report.Purpose() != ai.PurposeReport {
		t.Fatalf("handles assigned to wrong purposes")
	}
	if h.report.Params().Temperature != 0.1 {
		t.Fatalf("expected report override to apply, got %v", h.report.Params().Temperature)
	}
	if registry.Len() != 4 {
		t.Fatalf("expected 4 cached handles, got %d", registry.Len())
	}
}

func TestResolveHandlesWithoutKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	registry, err := newRegistry(&AIConfig{Provider: "openai"}, zap.NewNop())
	if err != nil {
		t.Fatalf("newRegistry: %v", err)
	}

	if _, err := resolveHandles(context.Background(), registry); err == nil {
		t.Fatalf("expected missing api key error")
	}
}

func TestConfigRedactedMasksInlineKeys(t *testing.T) {
	config := &Config{AI: &AIConfig{
		Provider: "gemini",
		Gemini:   &GeminiConfig{APIKey: "gemini-secret", Model: "gemini-2.5-flash"},
		OpenAI:   &OpenAIConfig{APIKey: "groq-secret", APIKeyFile: "/run/secrets/groq"},
	}}

	data, err := json.Marshal(config.redacted())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	dump := string(data)
	for _, secret := range []string{"gemini-secret", "groq-secret"} {
		if strings.Contains(dump, secret) {
			t.Fatalf("secret %q leaked into %s", secret, dump)
		}
	}
	if !strings.Contains(dump, "gemini-2.5-flash") || !strings.Contains(dump, "/run/secrets/groq") {
		t.Fatalf("non-secret fields lost: %s", dump)
	}
	if config.AI.Gemini.APIKey != "gemini-secret" || config.AI.OpenAI.APIKey != "groq-secret" {
		t.Fatalf("redaction must not modify the live config")
	}

	empty := (&Config{AI: &AIConfig{Gemini: &GeminiConfig{}}}).redacted()
	if empty.AI.Gemini.APIKey != "" {
		t.Fatalf("unset key should stay empty, got %q", empty.AI.Gemini.APIKey)
	}
	if (*Config)(nil).redacted() != nil {
		t.Fatalf("nil config should stay nil")
	}
}

func TestIntakeValidators(t *testing.T) {
	if err := validYears("7"); err != nil {
		t.Fatalf("7 years rejected: %v", err)
	}
	for _, bad := range []string{"", "-1", "51", "seven"} {
		if err := validYears(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}

	email := matches(candidate.ValidateEmail, "bad email")
	if err := email("ada@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	if err := email("ada@"); err == nil || err.Error() != "bad email" {
		t.Fatalf("expected bad email error, got %v", err)
	}

	if err := requireText("required")("  "); err == nil {
		t.Fatalf("blank text accepted")
	}
}
