package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/packwise/carton-packer/internal/packing"
	"github.com/packwise/carton-packer/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string               `yaml:"port"`
	InitialCartons       []storage.CartonSpec `yaml:"cartons"`
	AllowedOrigins       []string             `yaml:"allowed_origins"`
	ClearanceBuffer      float64              `yaml:"clearance_buffer"`
	ShutdownGracePeriod  time.Duration        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration        `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration        `yaml:"write_timeout"`
	IdleTimeout          time.Duration        `yaml:"idle_timeout"`
	EnableRequestLogging bool                 `yaml:"enable_request_logging"`
	RateLimitRPS         float64              `yaml:"-"`
	RateLimitBurst       int                  `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string               `yaml:"port"`
	Cartons              []storage.CartonSpec `yaml:"cartons"`
	AllowedOrigins       []string             `yaml:"allowed_origins"`
	ClearanceBuffer      *float64             `yaml:"clearance_buffer"`
	ShutdownGracePeriod  string               `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string               `yaml:"read_header_timeout"`
	WriteTimeout         string               `yaml:"write_timeout"`
	IdleTimeout          string               `yaml:"idle_timeout"`
	EnableRequestLogging bool                 `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit        `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile      string
	Port            *string
	OriginsStr      *string
	ClearanceBuffer *float64
	RateLimitRPS    *float64
	RateLimitBurst  *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		InitialCartons:       storage.DefaultCartons(),
		AllowedOrigins:       append([]string(nil), defaultAllowedOrigins...),
		ClearanceBuffer:      packing.DefaultBuffer,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Cartons) > 0 {
		cfg.InitialCartons = yamlCfg.Cartons
	}

	if len(yamlCfg.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = yamlCfg.AllowedOrigins
	}

	if yamlCfg.ClearanceBuffer != nil && *yamlCfg.ClearanceBuffer >= 0 {
		cfg.ClearanceBuffer = *yamlCfg.ClearanceBuffer
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rawOrigins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); rawOrigins != "" {
		if origins := parseOrigins(rawOrigins); len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	if buffer := strings.TrimSpace(os.Getenv("CLEARANCE_BUFFER")); buffer != "" {
		if value, err := strconv.ParseFloat(buffer, 64); err == nil && value >= 0 {
			cfg.ClearanceBuffer = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.OriginsStr != nil && *overrides.OriginsStr != "" {
		if origins := parseOrigins(*overrides.OriginsStr); len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	if overrides.ClearanceBuffer != nil && *overrides.ClearanceBuffer >= 0 {
		cfg.ClearanceBuffer = *overrides.ClearanceBuffer
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.ClearanceBuffer < 0 {
		return fmt.Errorf("clearance buffer must be >= 0")
	}
	if len(cfg.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins cannot be empty")
	}
	if err := storage.ValidateSpecs(cfg.InitialCartons); err != nil {
		return fmt.Errorf("initial cartons: %w", err)
	}
	return nil
}

// parseOrigins splits a comma-separated origin list, dropping empty entries.
func parseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		origins = append(origins, part)
	}
	return origins
}
