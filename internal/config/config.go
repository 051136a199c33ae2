// Package config loads auctiondesk settings from an optional YAML file,
// a .env file and AUCTIONDESK_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "AUCTIONDESK_"

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	DataDir   string          `yaml:"data_dir"`
	Auction   AuctionConfig   `yaml:"auction"`
	LogLevel  string          `yaml:"log_level"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// DatabaseConfig holds the sqlite location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuctionConfig holds defaults for the auction itself. Settings stored in the
// database override BidIncrement and DisplayTitle at runtime.
type AuctionConfig struct {
	RosterCap    int    `yaml:"roster_cap"`
	BidIncrement int64  `yaml:"bid_increment"`
	DisplayTitle string `yaml:"display_title"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	Insecure       bool   `yaml:"insecure"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8081,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "auction.db"},
		DataDir:  "data",
		Auction: AuctionConfig{
			RosterCap:    8,
			BidIncrement: 1000,
			DisplayTitle: "Auction Dashboard",
		},
		LogLevel: "info",
		Telemetry: TelemetryConfig{
			ServiceName:    "auctiondesk",
			ServiceVersion: "dev",
			OTLPEndpoint:   "localhost:4318",
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Database.Path = getEnv("DB", c.Database.Path)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Auction.DisplayTitle = getEnv("DISPLAY_TITLE", c.Auction.DisplayTitle)
	c.Telemetry.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	var err error
	if c.Server.Port, err = getEnvAsInt("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Auction.RosterCap, err = getEnvAsInt("ROSTER_CAP", c.Auction.RosterCap); err != nil {
		return err
	}
	inc, err := getEnvAsInt("BID_INCREMENT", int(c.Auction.BidIncrement))
	if err != nil {
		return err
	}
	c.Auction.BidIncrement = int64(inc)
	if c.Telemetry.Enabled, err = getEnvAsBool("TELEMETRY", c.Telemetry.Enabled); err != nil {
		return err
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Auction.RosterCap <= 0 {
		return fmt.Errorf("roster_cap must be positive, got %d", c.Auction.RosterCap)
	}
	if c.Auction.BidIncrement <= 0 {
		return fmt.Errorf("bid_increment must be positive, got %d", c.Auction.BidIncrement)
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		return fmt.Errorf("telemetry enabled without otlp_endpoint")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return b, nil
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
