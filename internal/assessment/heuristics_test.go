package assessment

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractTerms(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "vocabulary order", text: "Explain DATABASE indexing and Algorithm complexity", want: []string{"algorithm", "complexity", "database"}},
		{name: "multi word terms", text: "Which design pattern fits this data structure?", want: []string{"data structure", "design pattern"}},
		{name: "no match", text: "Tell me about yourself", want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTerms(tc.text); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractTerms(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestFallbackScoreBounds(t *testing.T) {
	inputs := []string{
		"",
		"short",
		strings.Repeat("word ", 500),
		strings.Repeat("function class method algorithm complexity performance optimization ", 50),
	}

	for _, input := range inputs {
		score, feedback := FallbackScore(input)
		if score < 0 || score > 1 {
			t.Fatalf("score %v out of range", score)
		}
		if len(feedback) != 3 {
			t.Fatalf("expected three feedback lines, got %d", len(feedback))
		}
	}
}

func TestFallbackScoreMonotonicInWordCount(t *testing.T) {
	previous := -1.0
	for _, words := range []int{0, 10, 50, 99, 100, 150} {
		score, _ := FallbackScore(strings.Repeat("word ", words))
		if score < previous {
			t.Fatalf("score decreased at %d words: %v < %v", words, score, previous)
		}
		previous = score
	}

	if score, _ := FallbackScore(strings.Repeat("word ", 100)); score != 0.5 {
		t.Fatalf("expected length to saturate at 0.5, got %v", score)
	}
}

func TestFallbackScoreMonotonicInTerms(t *testing.T) {
	previous := -1.0
	for i := 0; i <= len(technicalKeywords); i++ {
		score, _ := FallbackScore(strings.Join(technicalKeywords[:i], " "))
		if score < previous {
			t.Fatalf("score decreased at %d terms: %v < %v", i, score, previous)
		}
		previous = score
	}
}

func TestFallbackFeedback(t *testing.T) {
	_, feedback := FallbackScore("yes")
	if feedback[0] != "Answer length: Could be more detailed" {
		t.Fatalf("unexpected length feedback: %q", feedback[0])
	}
	if feedback[1] != "Technical depth: Could include more technical details" {
		t.Fatalf("unexpected depth feedback: %q", feedback[1])
	}

	rich := strings.Repeat("the algorithm method class function has complexity ", 20)
	_, feedback = FallbackScore(rich)
	if feedback[0] != "Answer length: Good" || feedback[1] != "Technical depth: Good" {
		t.Fatalf("unexpected feedback for rich answer: %v", feedback)
	}
	if !strings.HasPrefix(feedback[2], "Overall:") {
		t.Fatalf("expected overall line, got %q", feedback[2])
	}
}

func TestDetermineFocusAreas(t *testing.T) {
	results := []Result{
		{Question: "How does the database handle security?", Score: 0.3},
		{Question: "Explain api security", Score: 0.5},
		{Question: "Explain database testing and debugging", Score: 0.65},
		{Question: "Explain framework internals", Score: 0.95},
	}

	got := DetermineFocusAreas(results)
	want := []string{"database", "security", "api"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DetermineFocusAreas() = %v, want %v", got, want)
	}
}

func TestDetermineFocusAreasFallback(t *testing.T) {
	cases := [][]Result{
		nil,
		{{Question: "Tell me about yourself", Score: 0.1}},
		{{Question: "Explain database sharding", Score: 0.9}},
	}

	for _, results := range cases {
		got := DetermineFocusAreas(results)
		if !reflect.DeepEqual(got, defaultFocusAreas) {
			t.Fatalf("expected fallback focus areas, got %v", got)
		}
		got[0] = "mutated"
		if defaultFocusAreas[0] != "problem-solving" {
			t.Fatalf("fallback list must not be shared with callers")
		}
	}
}

func TestDetermineFocusAreasNeverExceedsThree(t *testing.T) {
	results := []Result{
		{Question: strings.Join(vocabulary, " "), Score: 0},
		{Question: "library framework", Score: 0},
	}

	got := DetermineFocusAreas(results)
	if len(got) != maxFocusAreas {
		t.Fatalf("expected %d focus areas, got %v", maxFocusAreas, got)
	}
	if got[0] != "framework" || got[1] != "library" {
		t.Fatalf("expected most frequent terms first, got %v", got)
	}
}

func TestFeedbackBand(t *testing.T) {
	cases := map[float64]string{
		0.95: "Excellent answer",
		0.8:  "Excellent answer",
		0.6:  "Good answer with room for improvement",
		0.59: "The answer needs more detail and technical depth",
		0:    "The answer needs more detail and technical depth",
	}
	for score, want := range cases {
		if got := FeedbackBand(score); got != want {
			t.Fatalf("FeedbackBand(%v) = %q, want %q", score, got, want)
		}
	}
}
