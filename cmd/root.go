package cmd

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spigell/talent-screener/internal/assessment"
	"github.com/spigell/talent-screener/internal/session"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "talent-screener"
	envPrefix = "TALENT_SCREENER"
)

type Config struct {
	Interview  session.Config    `mapstructure:"interview"`
	Assessment *AssessmentConfig `mapstructure:"assessment"`
	AI         *AIConfig         `mapstructure:"ai"`
	Report     *ReportConfig     `mapstructure:"report"`
}

type AssessmentConfig struct {
	Thresholds assessment.Thresholds `mapstructure:"thresholds"`
}

type AIConfig struct {
	Provider     string                    `mapstructure:"provider"`
	Timeout      time.Duration             `mapstructure:"timeout"`
	MaxRetries   int                       `mapstructure:"max-retries"`
	MaxLogLength int                       `mapstructure:"max-log-length"`
	Profiles     map[string]map[string]any `mapstructure:"profiles"`
	Gemini       *GeminiConfig             `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig             `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	BaseURL    string `mapstructure:"base-url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talent-screener runs an adaptive technical interview and writes an assessment report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	t := assessment.DefaultThresholds()
	v.SetDefault("assessment.thresholds.perfect-answer", t.PerfectAnswer)
	v.SetDefault("assessment.thresholds.good-answer", t.GoodAnswer)
	v.SetDefault("assessment.thresholds.poor-answer", t.PoorAnswer)
	v.SetDefault("assessment.thresholds.skip-penalty", t.SkipPenalty)
	v.SetDefault("assessment.thresholds.max-confidence", t.MaxConfidence)
	v.SetDefault("assessment.thresholds.min-confidence", t.MinConfidence)
	v.SetDefault("assessment.thresholds.completion-threshold", t.CompletionThreshold)
	v.SetDefault("assessment.thresholds.skip-threshold", t.SkipThreshold)
	v.SetDefault("assessment.thresholds.poor-answer-threshold", t.PoorAnswerThreshold)
	v.SetDefault("assessment.thresholds.resume-mismatch-penalty", t.ResumeMismatchPenalty)
	v.SetDefault("assessment.thresholds.resume-match-bonus", t.ResumeMatchBonus)
	v.SetDefault("assessment.thresholds.skill-mismatch-penalty", t.SkillMismatchPenalty)
	v.SetDefault("assessment.thresholds.experience-mismatch-penalty", t.ExperienceMismatchPenalty)

	v.SetDefault("interview.max-questions", session.DefaultMaxQuestions)

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.max-retries", 1)
	v.SetDefault("ai.max-log-length", 500)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "")
	v.SetDefault("ai.openai.base-url", "")
	v.SetDefault("ai.openai.api-key", "")
	v.SetDefault("ai.openai.api-key-file", "")
	v.SetDefault("ai.openai.model", "")

	v.SetDefault("report.dir", ".")
}

func initConfig() {
	// A missing .env is normal; keys usually come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but one that exists must parse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

const redactedValue = "[redacted]"

// redacted returns a copy of c safe to log: inline api keys are masked.
func (c *Config) redacted() *Config {
	if c == nil || c.AI == nil {
		return c
	}

	out := *c
	ai := *c.AI
	if ai.Gemini != nil {
		gemini := *ai.Gemini
		gemini.APIKey = mask(gemini.APIKey)
		ai.Gemini = &gemini
	}
	if ai.OpenAI != nil {
		openai := *ai.OpenAI
		openai.APIKey = mask(openai.APIKey)
		ai.OpenAI = &openai
	}
	out.AI = &ai
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return redactedValue
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
