package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/logger"
	"github.com/spigell/talent-screener/internal/recommendation"
	"github.com/spigell/talent-screener/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore REPORT.json",
	Short: "Re-run the confidence engine over a saved report without generation calls",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRescore(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)

	rescoreCmd.Flags().BoolP("write", "w", false, "rewrite the json and text reports next to the input file")
}

func runRescore(cmd *cobra.Command, path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	thresholds := assessment.DefaultThresholds()
	if config != nil && config.Assessment != nil {
		thresholds = config.Assessment.Thresholds
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading report", zap.Error(err))
	}

	rep, err := report.Parse(data)
	if err != nil {
		logger.Fatal("parsing report", zap.Error(err), zap.String("file", path))
	}

	outcome, err := rescore(rep, thresholds, logger)
	if err != nil {
		logger.Fatal("rescoring report", zap.Error(err))
	}

	printRescore(cmd.OutOrStdout(), rep, outcome)

	if write, _ := cmd.Flags().GetBool("write"); !write {
		return
	}

	jsonPath, textPath, err := rep.WriteFiles(filepath.Dir(path))
	if err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}
	logger.Info("report rewritten", zap.String("json", jsonPath), zap.String("text", textPath))
}

// rescore replaces the decision and recommendation of rep with the ones
// derived from its recorded scores and the given thresholds.
func rescore(rep *report.Report, thresholds assessment.Thresholds, logger *zap.Logger) (assessment.Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results, err := rep.Results()
	if err != nil {
		return assessment.Outcome{}, err
	}

	signal := assessment.ResumeSignal{}
	if rep.Resume != nil {
		signal = rep.Resume.Signal()
	}

	outcome := assessment.NewEngine(thresholds, logger).Assess(results, signal)
	rec := recommendation.Fallback(outcome.Stats.Average, rep.Candidate)

	rep.Decision = outcome.Decision
	rep.ConfidenceReasoning = outcome.Reasoning
	rep.RecommendationLabel = rec.Label
	rep.Recommendation = rec.Text
	rep.GeneratedFallback = rec.Fallback

	logger.Debug("report rescored",
		zap.String("report_id", rep.ReportID),
		zap.String("decision", string(outcome.Decision)),
		zap.Float64("confidence", outcome.Confidence),
		zap.String("rule", outcome.Rule),
	)

	return outcome, nil
}

func printRescore(out io.Writer, rep *report.Report, outcome assessment.Outcome) {
	fmt.Fprintf(out, "Report:     %s\n", rep.ReportID)
	fmt.Fprintf(out, "Candidate:  %s\n", rep.Candidate.Name)
	fmt.Fprintf(out, "Questions:  %d\n", len(rep.TechnicalAssessment))
	fmt.Fprintf(out, "Average:    %s\n", report.FormatPercent(outcome.Stats.Average))
	fmt.Fprintf(out, "Confidence: %s\n", report.FormatPercent(outcome.Confidence))
	fmt.Fprintf(out, "Decision:   %s\n", outcome.Decision)
	if outcome.Reasoning != "" {
		fmt.Fprintf(out, "Reasoning:  %s\n", outcome.Reasoning)
	}
	fmt.Fprintf(out, "Recommendation: %s\n", rep.RecommendationLabel)
}
