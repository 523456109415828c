package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/godilite/feedback-analyzer/internal/sentiment"
	"go.uber.org/zap"
)

const (
	RunModeMonitor = "monitor"
	RunModeOnce    = "once"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	SourcePath            string
	SourceSheet           string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	CacheTTL              time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	MetricsAddr           string
	PollInterval          time.Duration
	RunMode               string
	KafkaBrokers          []string
	KafkaResultsTopic     string
	KafkaSummaryTopic     string
	LexiconPath           string
	ExportXLSXPath        string
	TopWords              int
}

// LoadFromEnv loads configuration from environment variables. Malformed
// numeric values fall back to their defaults.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		SourcePath:            getEnv("SOURCE_PATH", "./data/feedback.xlsx"),
		SourceSheet:           getEnv("SOURCE_SHEET", "Respostas ao formulário 1"),
		DBPath:                getEnv("DB_PATH", "./data/results.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		CacheTTL:              getDuration("CACHE_TTL", 30*time.Second),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		MetricsAddr:           lookupEnv("METRICS_ADDR", ":9090"),
		PollInterval:          getDuration("POLL_INTERVAL", 30*time.Second),
		RunMode:               strings.ToLower(getEnv("RUN_MODE", RunModeMonitor)),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaResultsTopic:     getEnv("KAFKA_RESULTS_TOPIC", "feedback.results"),
		KafkaSummaryTopic:     getEnv("KAFKA_SUMMARY_TOPIC", "feedback.summary"),
		LexiconPath:           os.Getenv("LEXICON_PATH"),
		ExportXLSXPath:        os.Getenv("EXPORT_XLSX_PATH"),
		TopWords:              getInt("TOP_WORDS", 10),
	}
}

// Validate reports settings the application cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SourcePath == "" {
		errs = append(errs, errors.New("SOURCE_PATH is required"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.RunMode != RunModeMonitor && c.RunMode != RunModeOnce {
		errs = append(errs, fmt.Errorf("RUN_MODE must be %q or %q, got %q", RunModeMonitor, RunModeOnce, c.RunMode))
	}
	if c.TopWords <= 0 {
		errs = append(errs, fmt.Errorf("TOP_WORDS must be positive, got %d", c.TopWords))
	}
	return errors.Join(errs...)
}

// Lexicon returns the configured keyword lists, or the built-in ones when
// LEXICON_PATH is unset.
func (c *Config) Lexicon() (sentiment.Lexicon, error) {
	lex := sentiment.DefaultLexicon()
	if c.LexiconPath != "" {
		var err error
		if lex, err = sentiment.LoadLexicon(c.LexiconPath); err != nil {
			return sentiment.Lexicon{}, err
		}
	}
	if err := lex.Validate(); err != nil {
		return sentiment.Lexicon{}, err
	}
	return lex, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// lookupEnv is like getEnv but keeps an explicitly empty value.
func lookupEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
