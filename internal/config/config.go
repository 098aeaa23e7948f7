package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Late rating policies for posts that already reached the rated threshold
const (
	LateRatingsReject = "reject"
	LateRatingsAccept = "accept"
)

// Config is the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`

		// RatingsPerMinute caps POST /ratings per caller. Zero disables the limit.
		RatingsPerMinute int           `yaml:"ratings_per_minute"`
		ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // memory, sqlite, postgres, mysql
		DSN          string `yaml:"dsn"`
		MaxOpenConns int    `yaml:"max_open_conns"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		Issuer    string        `yaml:"issuer"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Policy struct {
		RatingsToPublish int    `yaml:"ratings_to_publish"`
		RatedThreshold   int    `yaml:"rated_threshold"`
		PageSize         int    `yaml:"page_size"`
		LateRatings      string `yaml:"late_ratings"`
	} `yaml:"policy"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultPath is the config file used when no --config flag is given
func DefaultPath() string {
	return getEnv("CONFIG_PATH", "config.yaml")
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Server.RatingsPerMinute = 60
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Database.Driver = "memory"
	cfg.Auth.Issuer = "deal-rater"
	cfg.Auth.TokenTTL = 24 * time.Hour
	cfg.Policy.RatingsToPublish = 2
	cfg.Policy.RatedThreshold = 5
	cfg.Policy.PageSize = 10
	cfg.Policy.LateRatings = LateRatingsReject
	cfg.Log.Level = "info"
	return &cfg
}

// Load reads the YAML file at path on top of the defaults, then applies environment overrides.
// A missing file is not an error; the defaults and environment are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory", "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver != "memory" && c.Database.DSN == "" {
		return fmt.Errorf("config: database dsn is required for driver %q", c.Database.Driver)
	}
	if c.Policy.RatingsToPublish < 1 {
		return fmt.Errorf("config: policy.ratings_to_publish must be at least 1, got %d", c.Policy.RatingsToPublish)
	}
	if c.Policy.RatedThreshold < 1 {
		return fmt.Errorf("config: policy.rated_threshold must be at least 1, got %d", c.Policy.RatedThreshold)
	}
	if c.Policy.PageSize < 1 {
		return fmt.Errorf("config: policy.page_size must be at least 1, got %d", c.Policy.PageSize)
	}
	if c.Policy.LateRatings != LateRatingsReject && c.Policy.LateRatings != LateRatingsAccept {
		return fmt.Errorf("config: policy.late_ratings must be %q or %q, got %q", LateRatingsReject, LateRatingsAccept, c.Policy.LateRatings)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Database.Driver = getEnv("DATABASE_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DATABASE_DSN", cfg.Database.DSN)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	if v, err := strconv.Atoi(getEnv("RATINGS_TO_PUBLISH", "")); err == nil {
		cfg.Policy.RatingsToPublish = v
	}
}

// getEnv returns the environment variable or the default value when it is unset
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
