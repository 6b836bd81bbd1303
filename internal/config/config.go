package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Environment
	Environment string // "development" or "production"
	DataDir     string

	// Persistence
	StorageType string
	DBPath      string
	DatabaseURL string

	// Table rules
	NumDecks           int
	ReshuffleThreshold int
	StartingBalance    int64
	CreditAmount       int64
	MaxBet             int64 // 0 means no table maximum

	// Logging
	LogLevel string
	LogFile  string

	// Sound effects
	SoundEnabled bool
	SoundDir     string

	// Read-only history API
	HTTPAddr string

	// Elasticsearch history mirror, disabled when ESURL is empty
	ESURL             string
	ESUsername        string
	ESPassword        string
	ESIndexPrefix     string
	ESReindexInterval time.Duration // how often serve re-puts recent sessions into the index

	// Model-backed advice, disabled when OpenAIKey is empty
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	dataDir := getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data"))

	cfg := &Config{
		Environment:   getEnvWithDefault("ENVIRONMENT", "development"),
		DataDir:       dataDir,
		StorageType:   strings.ToLower(getEnvWithDefault("STORAGE_TYPE", StorageSQLite)),
		DBPath:        getEnvWithDefault("DB_PATH", filepath.Join(dataDir, "blackjack.db")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "INFO"),
		LogFile:       getEnvWithDefault("LOG_FILE", filepath.Join(dataDir, "blackjack.log")),
		SoundDir:      getEnvWithDefault("SOUND_DIR", filepath.Join(wd, "sounds")),
		HTTPAddr:      getEnvWithDefault("HTTP_ADDR", ":8080"),
		ESURL:         os.Getenv("ES_URL"),
		ESUsername:    os.Getenv("ES_USERNAME"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		ESIndexPrefix: getEnvWithDefault("ES_INDEX_PREFIX", "blackjack"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnvWithDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
	}

	ints := []struct {
		key    string
		def    int64
		target func(int64)
	}{
		{"NUM_DECKS", 1, func(v int64) { cfg.NumDecks = int(v) }},
		{"STARTING_BALANCE", 100, func(v int64) { cfg.StartingBalance = v }},
		{"CREDIT_AMOUNT", 100, func(v int64) { cfg.CreditAmount = v }},
		{"MAX_BET", 0, func(v int64) { cfg.MaxBet = v }},
	}
	for _, i := range ints {
		v, err := getIntWithDefault(i.key, i.def)
		if err != nil {
			return nil, err
		}
		i.target(v)
	}

	// the default scales with the shoe so one round can never empty it
	threshold, err := getIntWithDefault("RESHUFFLE_THRESHOLD", int64(blackjack.MaxRoundCards(cfg.NumDecks)))
	if err != nil {
		return nil, err
	}
	cfg.ReshuffleThreshold = int(threshold)

	cfg.SoundEnabled, err = getBoolWithDefault("SOUND_ENABLED", false)
	if err != nil {
		return nil, err
	}
	cfg.ESReindexInterval, err = getDurationWithDefault("ES_REINDEX_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks that the table rules and storage settings are usable
func (c *Config) validate() error {
	if c.NumDecks < 1 {
		return invalid("NUM_DECKS must be at least 1")
	}
	if minimum := blackjack.MaxRoundCards(c.NumDecks); c.ReshuffleThreshold < minimum || c.ReshuffleThreshold >= c.NumDecks*entities.CardsPerDeck {
		return invalid(fmt.Sprintf("RESHUFFLE_THRESHOLD must be between %d and %d", minimum, c.NumDecks*entities.CardsPerDeck-1))
	}
	if c.StartingBalance < 1 {
		return invalid("STARTING_BALANCE must be at least 1")
	}
	if c.CreditAmount < 1 {
		return invalid("CREDIT_AMOUNT must be at least 1")
	}
	if c.MaxBet < 0 {
		return invalid("MAX_BET cannot be negative")
	}
	if c.ESReindexInterval <= 0 {
		return invalid("ES_REINDEX_INTERVAL must be positive")
	}

	switch c.StorageType {
	case StorageSQLite, StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return invalid("DATABASE_URL is required when STORAGE_TYPE is postgres")
		}
	default:
		return invalid(fmt.Sprintf("unknown STORAGE_TYPE %q", c.StorageType))
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func invalid(msg string) error {
	return types.NewGameError(types.ErrInvalidConfig, msg)
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, types.WrapError(types.ErrInvalidConfig, fmt.Sprintf("%s must be a whole number", key), err)
	}
	return n, nil
}

func getBoolWithDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, types.WrapError(types.ErrInvalidConfig, fmt.Sprintf("%s must be true or false", key), err)
	}
	return b, nil
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, types.WrapError(types.ErrInvalidConfig, fmt.Sprintf("%s must be a duration such as 15m", key), err)
	}
	return d, nil
}
