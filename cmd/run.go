package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/candidate"
	"github.com/spigell/talent-screener/internal/logger"
	"github.com/spigell/talent-screener/internal/questions"
	"github.com/spigell/talent-screener/internal/recommendation"
	"github.com/spigell/talent-screener/internal/report"
	"github.com/spigell/talent-screener/internal/resume"
	"github.com/spigell/talent-screener/internal/session"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptAnswer   = "Answer"
	PromptSkip     = "Skip question"
	PromptComplete = "Complete assessment"
)

var actionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptAnswer, PromptSkip, PromptComplete},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive technical interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "resume file (pdf, docx or plain text) checked against the profile")
	runCmd.Flags().StringP("profile", "p", "", "json file with the candidate profile; skips the intake prompts")
	runCmd.Flags().StringP("report-dir", "o", "", "directory for the json and text reports")

	viper.BindPFlag("report.dir", runCmd.Flags().Lookup("report-dir"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.AI == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the talent-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config.redacted(), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	thresholds := assessment.DefaultThresholds()
	if config.Assessment != nil {
		thresholds = config.Assessment.Thresholds
	}

	profile, err := loadProfile(cmd.Flag("profile").Value.String())
	if err != nil {
		logger.Fatal("collecting candidate profile", zap.Error(err))
	}

	profile, err = candidate.Validate(profile)
	if err != nil {
		var invalid *candidate.ValidationError
		if errors.As(err, &invalid) {
			for _, msg := range invalid.Messages() {
				fmt.Fprintln(out, msg)
			}
		}
		logger.Fatal("invalid candidate profile", zap.Error(err))
	}

	signal, resumeAssessment := analyzeResume(cmd.Flag("resume").Value.String(), profile, thresholds, out, logger)

	registry, err := newRegistry(config.AI, logger)
	if err != nil {
		logger.Fatal("configuring generation", zap.Error(err))
	}
	defer registry.Clear()

	h, err := resolveHandles(ctx, registry)
	if err != nil {
		logger.Fatal("creating generation handles", zap.Error(err))
	}

	maxLog := config.AI.MaxLogLength
	persona := candidate.ClassifyPersona(profile)
	logger.Debug("interviewer persona", zap.String("persona", string(persona)))

	interviewCfg := config.Interview
	interviewCfg.Thresholds = thresholds

	interview := session.New(
		profile,
		signal,
		assessment.NewEvaluator(h.evaluation, logger, maxLog),
		questions.New(h.conversation, questions.SystemPrompt(persona), logger, maxLog),
		interviewCfg,
		logger,
	)

	if _, err := interview.Start(ctx); err != nil {
		logger.Fatal("generating questions", zap.Error(err))
	}

	if err := interact(ctx, interview, out); err != nil {
		logger.Fatal("interview aborted", zap.Error(err))
	}

	state := interview.State()
	results := state.Results()

	fmt.Fprintf(out, "\nAssessment complete: %s\n%s\n", state.Decision(), state.Reasoning())

	rec := recommendation.NewSynthesizer(h.recommendation, logger, maxLog).Recommend(ctx, profile, results)
	detailed := report.NewNarrator(h.report, logger, maxLog).DetailedFeedback(ctx, profile.TechStack, results)

	rep := report.Build(report.Input{
		ID:               interview.ID(),
		GeneratedAt:      time.Now(),
		Profile:          profile,
		Records:          state.Records(),
		Decision:         state.Decision(),
		Reasoning:        state.Reasoning(),
		Recommendation:   rec,
		DetailedFeedback: detailed,
		Resume:           resumeAssessment,
	})

	fmt.Fprintln(out, rep.Text())

	dir := viper.GetString("report.dir")
	jsonPath, textPath, err := rep.WriteFiles(dir)
	if err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}

	logger.Info("report written",
		zap.String("json", jsonPath),
		zap.String("text", textPath),
		zap.String("decision", string(state.Decision())),
	)
}

// interact asks questions until the interview reaches a terminal state or
// the candidate completes it early.
func interact(ctx context.Context, interview *session.Interview, out io.Writer) error {
	state := interview.State()

	for !state.Terminal() {
		question, ok, err := interview.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		fmt.Fprintf(out, "\nQuestion %d of up to %d\n%s\n\n", state.Asked()+1, state.MaxQuestions(), question)

		_, action, err := actionPrompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptAnswer:
			answer, err := (&promptui.Prompt{
				Label:    "Your answer",
				Validate: requireText("please provide an answer before submitting"),
			}).Run()
			if err != nil {
				return err
			}

			feedback, err := interview.Submit(ctx, answer)
			if errors.Is(err, session.ErrEmptyAnswer) {
				fmt.Fprintln(out, err)
				continue
			}
			if err != nil {
				return err
			}
			printFeedback(out, feedback)
		case PromptSkip:
			if err := interview.Skip(); err != nil {
				return err
			}
		case PromptComplete:
			outcome, err := interview.CompleteEarly()
			if errors.Is(err, session.ErrNothingAnswered) {
				fmt.Fprintln(out, "Please answer at least one question before completing the assessment.")
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Assessment completed early: %s\n", outcome.Decision)
			return nil
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}

	return nil
}

func printFeedback(out io.Writer, fb session.Feedback) {
	fmt.Fprintf(out, "\nScore: %s. %s\n", report.FormatPercent(fb.Score), fb.Band)
	for _, line := range fb.Lines {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func analyzeResume(path string, profile candidate.Profile, thresholds assessment.Thresholds, out io.Writer, logger *zap.Logger) (assessment.ResumeSignal, *resume.Assessment) {
	if strings.TrimSpace(path) == "" {
		return assessment.ResumeSignal{}, nil
	}

	text, err := resume.ExtractText(path)
	if err != nil {
		hint := "continuing without resume analysis"
		if errors.Is(err, resume.ErrUnsupportedFormat) {
			hint = "use a pdf, docx or plain text resume"
		}
		logger.Warn("reading resume", zap.Error(err), zap.String("hint", hint))
		return assessment.ResumeSignal{}, nil
	}

	analysis := resume.AnalyzeConsistency(text, profile, thresholds, time.Now())
	logger.Info("resume analyzed",
		zap.Float64("consistency", analysis.ConsistencyScore),
		zap.Int("findings", len(analysis.Findings)),
		zap.Strings("detected_skills", analysis.DetectedSkills),
	)

	for _, finding := range analysis.Findings {
		fmt.Fprintf(out, "Resume: %s\n", finding)
	}
	fmt.Fprintln(out, resume.Motivation(analysis))

	return analysis.Signal(), &analysis
}

func loadProfile(path string) (candidate.Profile, error) {
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return candidate.Profile{}, fmt.Errorf("reading profile: %w", err)
		}
		var p candidate.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			return candidate.Profile{}, fmt.Errorf("parsing profile %q: %w", path, err)
		}
		return p, nil
	}

	return intake()
}

// intake collects the profile field by field with inline validation.
func intake() (candidate.Profile, error) {
	var p candidate.Profile

	steps := []struct {
		label    string
		validate promptui.ValidateFunc
		set      func(string) error
	}{
		{"Full Name", requireText("Full Name is required"), func(s string) error { p.Name = s; return nil }},
		{"Email Address", matches(candidate.ValidateEmail, "Valid Email Address is required"), func(s string) error { p.Email = s; return nil }},
		{"Phone Number", matches(candidate.ValidatePhone, "Valid Phone Number is required"), func(s string) error { p.Phone = s; return nil }},
		{"Years of Experience", validYears, func(s string) error {
			years, err := strconv.Atoi(strings.TrimSpace(s))
			p.YearsOfExperience = years
			return err
		}},
		{"Desired Position", requireText("Desired Position is required"), func(s string) error { p.DesiredPosition = s; return nil }},
		{"Location", requireText("Location is required"), func(s string) error { p.Location = s; return nil }},
		{"Tech Stack (comma separated)", matches(candidate.ValidateTechStack, "At least one Technology in Tech Stack is required"), func(s string) error {
			p.TechStack = candidate.ParseTechStack(s)
			return nil
		}},
	}

	for _, step := range steps {
		value, err := (&promptui.Prompt{Label: step.label, Validate: step.validate}).Run()
		if err != nil {
			return p, err
		}
		if err := step.set(value); err != nil {
			return p, fmt.Errorf("%s: %w", step.label, err)
		}
	}

	return p, nil
}

func requireText(message string) promptui.ValidateFunc {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

func matches(valid func(string) bool, message string) promptui.ValidateFunc {
	return func(s string) error {
		if !valid(s) {
			return errors.New(message)
		}
		return nil
	}
}

func validYears(s string) error {
	years, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || years < 0 || years > 50 {
		return errors.New("Years of Experience must be between 0 and 50")
	}
	return nil
}
