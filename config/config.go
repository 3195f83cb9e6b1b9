package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nutrilog/backend/internal/logging"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Nutritionix NutritionixConfig `mapstructure:"nutritionix"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig points at the SQLite file
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// NutritionixConfig holds Nutritionix API configuration
type NutritionixConfig struct {
	AppID         string        `mapstructure:"app_id"`
	AppKey        string        `mapstructure:"app_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

// MatchingConfig tunes "did you mean" suggestions for unknown food names
type MatchingConfig struct {
	MinScore       float64 `mapstructure:"min_score"`
	MaxSuggestions int     `mapstructure:"max_suggestions"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from a .env file, environment variables, and
// config files
func Load() (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutrilog/")

	// Environment variable settings: NUTRILOG_NUTRITIONIX_APP_ID -> nutritionix.app_id
	v.SetEnvPrefix("NUTRILOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile exports the variables of path without overriding ones already
// set. A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error reading %s: %w", path, err)
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("database.path", "nutrilog.db")

	// Nutritionix defaults
	v.SetDefault("nutritionix.app_id", "")
	v.SetDefault("nutritionix.app_key", "")
	v.SetDefault("nutritionix.base_url", "https://trackapi.nutritionix.com/v2")
	v.SetDefault("nutritionix.timeout", "15s")
	v.SetDefault("nutritionix.rate_per_second", 1.0)
	v.SetDefault("nutritionix.burst", 5)

	v.SetDefault("matching.min_score", 0.3)
	v.SetDefault("matching.max_suggestions", 5)

	v.SetDefault("ratelimit.per_ip", 120)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Database.Path) == "" {
		return fmt.Errorf("database path is required (set NUTRILOG_DATABASE_PATH)")
	}

	if config.Nutritionix.Timeout <= 0 {
		return fmt.Errorf("nutritionix timeout must be positive, got: %s", config.Nutritionix.Timeout)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if !slices.Contains(logging.Levels, config.Log.Level) {
		return fmt.Errorf("log level must be one of %s, got: %s", strings.Join(logging.Levels, ", "), config.Log.Level)
	}

	return nil
}

// RequireNutritionix reports whether the Nutritionix credentials are set.
// Only commands that query the external source call it.
func (c *Config) RequireNutritionix() error {
	if c.Nutritionix.AppID == "" || c.Nutritionix.AppKey == "" {
		return fmt.Errorf("Nutritionix credentials are required (set NUTRILOG_NUTRITIONIX_APP_ID and NUTRILOG_NUTRITIONIX_APP_KEY)")
	}
	return nil
}
