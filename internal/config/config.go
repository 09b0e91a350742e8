// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pricebyte/catalog-backend/internal/matching"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Matcher     MatcherConfig
	Frontend    FrontendConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type MatcherConfig struct {
	Threshold        float64
	NameWeight       float64
	BrandWeight      float64
	CategoryWeight   float64
	SizeWeight       float64
	NarrowCandidates bool
	MaxRetries       int
}

type FrontendConfig struct {
	BaseURL string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	defaults := matching.DefaultWeights()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "pricebyte_catalog"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Matcher: MatcherConfig{
			Threshold:        getEnvAsFloat("MATCH_THRESHOLD", matching.DefaultThreshold),
			NameWeight:       getEnvAsFloat("MATCH_NAME_WEIGHT", defaults.Name),
			BrandWeight:      getEnvAsFloat("MATCH_BRAND_WEIGHT", defaults.Brand),
			CategoryWeight:   getEnvAsFloat("MATCH_CATEGORY_WEIGHT", defaults.Category),
			SizeWeight:       getEnvAsFloat("MATCH_SIZE_WEIGHT", defaults.Size),
			NarrowCandidates: getEnvAsBool("MATCH_NARROW_CANDIDATES", false),
			MaxRetries:       getEnvAsInt("MATCH_MAX_RETRIES", 3),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("match threshold must be in (0,1], got %v", c.Matcher.Threshold)
	}

	if c.Matcher.MaxRetries < 1 {
		return fmt.Errorf("match max retries must be at least 1")
	}

	return c.Matcher.Weights().Validate()
}

// Weights assembles the configured similarity weights.
func (m MatcherConfig) Weights() matching.Weights {
	return matching.Weights{
		Name:     m.NameWeight,
		Brand:    m.BrandWeight,
		Category: m.CategoryWeight,
		Size:     m.SizeWeight,
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
