package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileSuffix = "_Assessment_Report"

// FileBase derives the report file name from the candidate name.
func (r *Report) FileBase() string {
	name := strings.Join(strings.Fields(r.Candidate.Name), "_")
	if name == "" {
		name = r.ReportID
	}
	return strings.Map(func(c rune) rune {
		if c == '/' || c == '\\' || c == os.PathSeparator {
			return '_'
		}
		return c
	}, name) + fileSuffix
}

// WriteFiles stores the JSON report and its text mirror in dir.
func (r *Report) WriteFiles(dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}

	data, err := r.JSON()
	if err != nil {
		return "", "", err
	}

	base := filepath.Join(dir, r.FileBase())
	jsonPath, textPath := base+".json", base+".txt"

	if err := os.WriteFile(jsonPath, data, 0o600); err != nil {
		return "", "", fmt.Errorf("write %s: %w", jsonPath, err)
	}
	if err := os.WriteFile(textPath, []byte(r.Text()), 0o600); err != nil {
		return "", "", fmt.Errorf("write %s: %w", textPath, err)
	}
	return jsonPath, textPath, nil
}
