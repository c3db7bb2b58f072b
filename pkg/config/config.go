package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service. Environment variables are
// read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Logging
	LogLevel  string
	LogFormat string // json or console

	// Scoring weights used by the classification endpoints. Normalized by
	// the calculator at construction time.
	Scoring ScoringConfig

	// Oracle / issuance gating
	Oracle OracleConfig

	// Optional issuance archive database
	Database DatabaseConfig
}

// ScoringConfig holds the ESG aggregation weights.
type ScoringConfig struct {
	EnvironmentalWeight float64
	SocialWeight        float64
	GovernanceWeight    float64
	WithCarbonIntensity bool
}

// OracleConfig holds registry/ledger administration and mint gating settings.
type OracleConfig struct {
	// Admin is the identity allowed to toggle provider state and ledger
	// authorization flags.
	Admin string

	// MinMintScore is the composite score required to mint.
	MinMintScore int

	// ScoreMaxAge is the freshness window for ledger records. Zero disables
	// the freshness check.
	ScoreMaxAge time.Duration

	// FreshnessSweepSchedule is the cron expression for the staleness sweep.
	FreshnessSweepSchedule string
}

// DatabaseConfig holds PostgreSQL settings for the issuance archive. The
// archive is optional; an empty URL disables it.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether an archive database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables. Only this function
// calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Scoring: ScoringConfig{
			EnvironmentalWeight: getEnvAsFloat("ESG_WEIGHT_ENVIRONMENTAL", 1.0/3.0),
			SocialWeight:        getEnvAsFloat("ESG_WEIGHT_SOCIAL", 1.0/3.0),
			GovernanceWeight:    getEnvAsFloat("ESG_WEIGHT_GOVERNANCE", 1.0/3.0),
			WithCarbonIntensity: getEnvAsBool("ESG_CARBON_INTENSITY", true),
		},

		Oracle: OracleConfig{
			Admin:                  getEnv("ORACLE_ADMIN", "admin"),
			MinMintScore:           getEnvAsInt("MINT_MIN_SCORE", 50),
			ScoreMaxAge:            getEnvAsDuration("SCORE_MAX_AGE", "24h"),
			FreshnessSweepSchedule: getEnv("FRESHNESS_SWEEP_SCHEDULE", "0 0 * * * *"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration invariants that would otherwise surface as
// confusing runtime errors.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	w := c.Scoring
	if w.EnvironmentalWeight < 0 || w.SocialWeight < 0 || w.GovernanceWeight < 0 {
		return fmt.Errorf("ESG weights must be non-negative")
	}
	if w.EnvironmentalWeight+w.SocialWeight+w.GovernanceWeight <= 0 {
		return fmt.Errorf("ESG weights must sum to > 0")
	}

	if c.Oracle.MinMintScore < 0 || c.Oracle.MinMintScore > 100 {
		return fmt.Errorf("MINT_MIN_SCORE must be within 0-100")
	}

	return nil
}

// loadEnvFile tries to load .env from the working directory or next to the
// executable.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
