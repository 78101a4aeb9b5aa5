package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Pipeline PipelineConfig
	Ranking  RankingConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds artifact store configuration
type DatabaseConfig struct {
	Driver             string // postgres or sqlite
	DSN                string // Full PostgreSQL connection string, preferred over the fields below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	SQLitePath         string
	AutoMigrate        bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// PipelineConfig holds design generation configuration
type PipelineConfig struct {
	DefaultLocation string // City used for cost multipliers when a request names none
	RetryCount      int
	RetryDelay      time.Duration
	SimilarLimit    int
}

// RankingConfig holds budget-fit weights
type RankingConfig struct {
	WeightBudget     float64
	WeightEfficiency float64
	WeightStyle      float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:             strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "vibehouse"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			SQLitePath:         getEnv("SQLITE_PATH", "data/vibehouse.db"),
			AutoMigrate:        getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Pipeline: PipelineConfig{
			DefaultLocation: getEnv("PIPELINE_DEFAULT_LOCATION", ""),
			RetryCount:      getEnvAsInt("PIPELINE_RETRY_COUNT", 3),
			RetryDelay:      getEnvAsDuration("PIPELINE_RETRY_DELAY", 30*time.Second),
			SimilarLimit:    getEnvAsInt("PIPELINE_SIMILAR_LIMIT", 5),
		},
		Ranking: RankingConfig{
			WeightBudget:     getEnvAsFloat("RANK_WEIGHT_BUDGET", 0.6),
			WeightEfficiency: getEnvAsFloat("RANK_WEIGHT_EFFICIENCY", 0.25),
			WeightStyle:      getEnvAsFloat("RANK_WEIGHT_STYLE", 0.15),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Pipeline.RetryCount < 1 {
		return fmt.Errorf("PIPELINE_RETRY_COUNT must be at least 1, got %d", c.Pipeline.RetryCount)
	}
	if c.Ranking.WeightBudget < 0 || c.Ranking.WeightEfficiency < 0 || c.Ranking.WeightStyle < 0 {
		return fmt.Errorf("ranking weights must not be negative")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
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
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
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
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
