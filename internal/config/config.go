package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
)

// Seed modes.
const (
	SeedModeNone  = "none"
	SeedModeOnce  = "once"
	SeedModeReset = "reset"
)

// Deployment environments. EnvDevelopment is the only one in which a
// destructive reseed is allowed; it must be selected explicitly.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration.
type Config struct {
	AppEnv   string `default:"production" usage:"Deployment environment (development, staging, production)"`
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Seed     SeedConfig
	S3       S3Config
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `default:"0.0.0.0" usage:"HTTP listen host"`
	Port int    `default:"8080" usage:"HTTP listen port"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	URL             string `usage:"PostgreSQL connection URL, overrides the discrete fields (or DATABASE_URL)"`
	Host            string `default:"localhost"`
	Port            int    `default:"5432"`
	User            string `default:"postgres"`
	Password        string `default:""`
	Name            string `default:"simple_shop"`
	MaxConnections  int    `default:"25"`
	MinConnections  int    `default:"5"`
	MaxConnLifetime int    `default:"300" usage:"Connection lifetime in seconds"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `default:"info"`
	Format string `default:"json" usage:"json or console"`
}

// SeedConfig controls how the product catalogue is populated at startup.
type SeedConfig struct {
	// Mode is one of none, once or reset. Reset wipes every table and is
	// refused outside the development environment.
	Mode string `default:"once"`
	// File is a gzipped JSON catalogue. Empty means the built-in catalogue.
	File string
	// DefaultSessionID, when set, creates an empty cart with this session id.
	DefaultSessionID string
}

// S3Config holds AWS S3 configuration for catalogue files.
type S3Config struct {
	Enabled bool   `default:"false"`
	Bucket  string `default:""`
	Region  string `default:"us-east-1"`
	Prefix  string `default:"catalog/" usage:"Path prefix within bucket"`
}

// Load loads configuration from SHOP_-prefixed environment variables and an
// optional config.yaml in the working directory.
func Load() (*Config, error) {
	return LoadFiles("config.yaml", "/etc/simple-shop/config.yaml")
}

// LoadFiles is like Load but reads the given YAML files instead of the
// default locations. Missing files are ignored.
func LoadFiles(files ...string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:          "SHOP",
		SkipFlags:          true,
		AllowUnknownEnvs:   true,
		AllowUnknownFields: true,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyPlatformDefaults maps the conventional DATABASE_URL and PORT variables
// used by hosting platforms onto the SHOP_ configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Server.Port == 8080 {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.URL == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}

		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}

		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}

		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Seed.Mode {
	case SeedModeNone, SeedModeOnce:
	case SeedModeReset:
		if c.AppEnv != EnvDevelopment {
			return fmt.Errorf("seed mode %q is destructive and only allowed when app env is %q (got %q)",
				SeedModeReset, EnvDevelopment, c.AppEnv)
		}
	default:
		return fmt.Errorf("invalid seed mode: %s (must be none, once, or reset)", c.Seed.Mode)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
		if c.Seed.File == "" {
			return fmt.Errorf("seed file is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
