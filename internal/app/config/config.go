// Package config loads and validates environment variables at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration of the bot.
type Config struct {
	TelegramBotToken    string
	TimeLocation        *time.Location
	LogFile             string
	LogSilent           bool
	ResultsDir          string
	DebugDir            string
	ResultsPerPage      int
	ConversationIdleTTL time.Duration
	Fetch               FetchConfig
	Schedule            ScheduleConfig
	Database            DatabaseConfig
}

// FetchConfig controls marketplace page fetching.
type FetchConfig struct {
	BaseUrl        string
	MaxRetries     int
	RetryDelay     time.Duration
	AttemptTimeout time.Duration
	SettleDelay    time.Duration
	Headless       bool
}

// ScheduleConfig controls recurring searches.
type ScheduleConfig struct {
	InitialDelay time.Duration
}

// DatabaseConfig holds Postgres credentials; the journal is disabled when Host is empty.
type DatabaseConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	timezone := getEnv("TIMEZONE", "UTC")
	timeLocation, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q is invalid: %w", timezone, err)
	}

	env := &envReader{}

	cfg := &Config{
		TelegramBotToken:    strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TimeLocation:        timeLocation,
		LogFile:             getEnv("LOG_FILE", "app.log"),
		LogSilent:           env.Bool("LOG_SILENT", false),
		ResultsDir:          getEnv("RESULTS_DIR", "search_results"),
		DebugDir:            getEnv("DEBUG_DIR", "debug"),
		ResultsPerPage:      env.Int("RESULTS_PER_PAGE", 5),
		ConversationIdleTTL: env.Duration("CONVERSATION_IDLE_TTL", 10*time.Minute),
		Fetch: FetchConfig{
			BaseUrl:        strings.TrimRight(getEnv("MARKETPLACE_BASE_URL", "https://www.carousell.sg"), "/"),
			MaxRetries:     env.Int("FETCH_MAX_RETRIES", 3),
			RetryDelay:     env.Duration("FETCH_RETRY_DELAY", 5*time.Second),
			AttemptTimeout: env.Duration("FETCH_ATTEMPT_TIMEOUT", 90*time.Second),
			SettleDelay:    env.Duration("FETCH_SETTLE_DELAY", 15*time.Second),
			Headless:       env.Bool("FETCH_HEADLESS", true),
		},
		Schedule: ScheduleConfig{
			InitialDelay: env.Duration("SCHEDULE_INITIAL_DELAY", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     env.Int("DB_PORT", 5432),
			Username: os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_DATABASE"),
		},
	}

	if err := env.Err(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadDatabase reads only the database part of configuration (used by console commands).
func LoadDatabase() (DatabaseConfig, error) {
	env := &envReader{}

	cfg := DatabaseConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     env.Int("DB_PORT", 5432),
		Username: os.Getenv("DB_USERNAME"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: os.Getenv("DB_DATABASE"),
	}

	if err := env.Err(); err != nil {
		return cfg, err
	}

	if !cfg.Enabled() {
		return cfg, fmt.Errorf("DB_HOST is required")
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("RESULTS_DIR cannot be empty")
	}
	if c.ResultsPerPage < 1 {
		return fmt.Errorf("RESULTS_PER_PAGE must be a positive integer")
	}
	if c.Fetch.MaxRetries < 1 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be a positive integer")
	}
	if c.Fetch.RetryDelay < 0 {
		return fmt.Errorf("FETCH_RETRY_DELAY cannot be negative")
	}
	if c.Fetch.AttemptTimeout <= 0 {
		return fmt.Errorf("FETCH_ATTEMPT_TIMEOUT must be positive")
	}
	if c.Schedule.InitialDelay < 0 {
		return fmt.Errorf("SCHEDULE_INITIAL_DELAY cannot be negative")
	}
	if c.ConversationIdleTTL <= 0 {
		return fmt.Errorf("CONVERSATION_IDLE_TTL must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

// Typed environment getters, malformed values are collected as errors naming the key.
type envReader struct {
	errs []error
}

func (r *envReader) Err() error {
	return errors.Join(r.errs...)
}

func (r *envReader) Int(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s %q is not an integer", key, raw))
		return def
	}

	return value
}

func (r *envReader) Bool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s %q is not a boolean", key, raw))
		return def
	}

	return value
}

func (r *envReader) Duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s %q is not a duration", key, raw))
		return def
	}

	return value
}
