package resume

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/candidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Senior Backend Engineer
5 years of experience building Python and Django services.
Worked with Docker and PostgreSQL.
2019 - present: Backend Engineer at Acme`

var analysisTime = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestAnalyzeConsistencyMatchingProfile(t *testing.T) {
	profile := candidate.Profile{
		YearsOfExperience: 5,
		DesiredPosition:   "Backend Engineer",
		TechStack:         []string{"Python", "Django", "Docker"},
	}

	got := AnalyzeConsistency(sampleResume, profile, assessment.DefaultThresholds(), analysisTime)

	assert.Equal(t, 1.0, got.ConsistencyScore)
	assert.Empty(t, got.Findings)
	assert.Equal(t, []string{"Python", "Django", "Docker"}, got.MatchedSkills)
	assert.Equal(t, "Your experience in Python stands out. Let's showcase your expertise!", Motivation(got))
}

func TestAnalyzeConsistencyMismatches(t *testing.T) {
	profile := candidate.Profile{
		YearsOfExperience: 12,
		DesiredPosition:   "Data Scientist",
		TechStack:         []string{"Python", "Rust", "Kubernetes"},
	}

	got := AnalyzeConsistency(sampleResume, profile, assessment.DefaultThresholds(), analysisTime)

	assert.InDelta(t, 0.49, got.ConsistencyScore, 1e-9)
	assert.Equal(t, []string{
		"Experience discrepancy: Claimed 12 years, Resume suggests 5 years",
		"Skills mentioned but not found in resume: rust, kubernetes",
		"Desired position not aligned with resume content",
	}, got.Findings)
	assert.Equal(t, "Every question is an opportunity to demonstrate your capabilities!", Motivation(got))

	signal := got.Signal()
	require.NotNil(t, signal.Consistency)
	assert.InDelta(t, 0.49, *signal.Consistency, 1e-9)
	assert.Len(t, signal.Findings, 3)
}

func TestAnalyzeConsistencyYearRanges(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "present", text: "Software developer 2010 - now", want: "Resume suggests 14 years"},
		{name: "current year", text: "Software developer 2016-2024", want: "Resume suggests 8 years"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := candidate.Profile{YearsOfExperience: 1, DesiredPosition: "Software Developer"}
			got := AnalyzeConsistency(tc.text, profile, assessment.DefaultThresholds(), analysisTime)

			require.NotEmpty(t, got.Findings)
			assert.Contains(t, got.Findings[0], tc.want)
			assert.InDelta(t, 0.9, got.ConsistencyScore, 1e-9)
		})
	}
}

func TestAnalyzeConsistencyClampsToZero(t *testing.T) {
	profile := candidate.Profile{
		YearsOfExperience: 30,
		DesiredPosition:   "Astronaut",
		TechStack:         []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "a11", "a12"},
	}

	got := AnalyzeConsistency(sampleResume, profile, assessment.DefaultThresholds(), analysisTime)
	assert.Equal(t, 0.0, got.ConsistencyScore)
}

func TestAnalyzeConsistencyUsesThresholds(t *testing.T) {
	thresholds := assessment.DefaultThresholds()
	thresholds.ResumeMismatchPenalty = -0.5

	profile := candidate.Profile{YearsOfExperience: 5, DesiredPosition: "Pilot"}
	got := AnalyzeConsistency(sampleResume, profile, thresholds, analysisTime)
	assert.InDelta(t, 0.5, got.ConsistencyScore, 1e-9)
}

func TestDetectSkills(t *testing.T) {
	assert.Equal(t, []string{"go", "docker", "aws"}, DetectSkills("Experience with Go, Docker and AWS."))
	assert.Equal(t, []string{"javascript"}, DetectSkills("JavaScript"))
	assert.Empty(t, DetectSkills("Good governance"))
	assert.Equal(t, []string{"c++"}, DetectSkills("Modern C++ developer"))
}

func TestMotivationBands(t *testing.T) {
	assert.Equal(t, "Your background shows promise. This assessment will highlight your potential.",
		Motivation(Assessment{ConsistencyScore: 0.9}))
	assert.Equal(t, "Your background shows promise. This assessment will highlight your potential.",
		Motivation(Assessment{ConsistencyScore: 0.6}))
}

func TestExtractPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Jane Doe  \n\n  Go developer \n"), 0o600))

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`},
		{"_rels/.rels", `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Jane </w:t></w:r><w:r><w:t>Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Senior Go Engineer</w:t></w:r></w:p>
</w:body></w:document>`},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	text, err := Extract(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Go Engineer", text)
}

func TestExtractRejectsUnsupportedFormats(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	_, err := Extract(png)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractEmptyDocument(t *testing.T) {
	_, err := Extract([]byte("   \n \n"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestExtractBrokenPDF(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.4\nnot really a pdf"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
