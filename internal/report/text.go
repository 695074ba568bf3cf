package report

import (
	"fmt"
	"strings"
)

const title = "TalentScout Assessment Report"

// Text renders the plain-text mirror of the report.
func (r *Report) Text() string {
	var b strings.Builder

	fmt.Fprintln(&b, title)
	fmt.Fprintf(&b, "Report ID: %s\n", r.ReportID)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	c := r.Candidate
	fmt.Fprintln(&b, "Candidate Information:")
	fmt.Fprintf(&b, "  Full Name: %s\n", c.Name)
	fmt.Fprintf(&b, "  Email: %s\n", c.Email)
	fmt.Fprintf(&b, "  Phone: %s\n", c.Phone)
	fmt.Fprintf(&b, "  Years of Experience: %d\n", c.YearsOfExperience)
	fmt.Fprintf(&b, "  Desired Position: %s\n", c.DesiredPosition)
	fmt.Fprintf(&b, "  Location: %s\n", c.Location)
	fmt.Fprintf(&b, "  Tech Stack: %s\n\n", c.TechStackString())

	fmt.Fprintln(&b, "Technical Assessment Results:")
	fmt.Fprintf(&b, "  Average Score: %s\n", r.AverageScore)
	fmt.Fprintf(&b, "  Highest Score: %s\n", r.HighestScore)
	fmt.Fprintf(&b, "  Questions Completed: %d\n", r.QuestionsCompleted)
	fmt.Fprintf(&b, "  Decision: %s\n", r.Decision)
	if r.ConfidenceReasoning != "" {
		fmt.Fprintf(&b, "  Reasoning: %s\n", strings.ReplaceAll(r.ConfidenceReasoning, "\n", "\n    "))
	}
	b.WriteString("\n")

	for i, entry := range r.TechnicalAssessment {
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, entry.Question)
		fmt.Fprintf(&b, "Answer: %s\n", entry.Answer)
		fmt.Fprintf(&b, "Score: %s\n\n", entry.Score)
	}

	if r.Resume != nil {
		fmt.Fprintln(&b, "Resume Consistency:")
		fmt.Fprintf(&b, "  Score: %s\n", FormatPercent(r.Resume.ConsistencyScore))
		for _, finding := range r.Resume.Findings {
			fmt.Fprintf(&b, "  - %s\n", finding)
		}
		b.WriteString("\n")
	}

	fmt.Fprintln(&b, "Recommendation:")
	fmt.Fprintln(&b, r.Recommendation)

	if r.DetailedFeedback != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Detailed Feedback:")
		fmt.Fprintln(&b, r.DetailedFeedback)
	}

	return b.String()
}
