// Package config loads and validates the refdesk API configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the refdesk API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Auth       AuthConfig       `yaml:"auth"`
	Matcher    MatcherConfig    `yaml:"matcher"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // label for metrics (default: openai)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// MatcherConfig holds fuzzy entity matching settings.
type MatcherConfig struct {
	Threshold    float64 `yaml:"threshold"`   // minimum candidate score (default: 0.7)
	MaxResults   int     `yaml:"max_results"` // candidate list cap (default: 5)
	AliasFile    string  `yaml:"alias_file"`  // optional YAML alias dictionary
	WatchAliases bool    `yaml:"watch_aliases"`
}

// ConfidenceConfig holds answer confidence gating settings.
type ConfidenceConfig struct {
	DefaultThreshold   float64            `yaml:"default_threshold"` // default: 0.55
	CategoryThresholds map[string]float64 `yaml:"category_thresholds"`
	TopK               int                `yaml:"top_k"`   // evidence items averaged (default: 3)
	Epsilon            float64            `yaml:"epsilon"` // ambiguity tie window (default: 0.05)
	DegradedPenalty    float64            `yaml:"degraded_penalty"`
}

// RetrievalConfig holds evidence retrieval settings.
type RetrievalConfig struct {
	TimeoutMS int    `yaml:"timeout_ms"`
	TopK      int    `yaml:"top_k"`
	IndexName string `yaml:"index_name"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTLSec    int    `yaml:"ttl_sec"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Matcher.Threshold <= 0 {
		c.Matcher.Threshold = 0.7
	}
	if c.Matcher.MaxResults <= 0 {
		c.Matcher.MaxResults = 5
	}
	if c.Confidence.DefaultThreshold <= 0 {
		c.Confidence.DefaultThreshold = 0.55
	}
	if c.Confidence.TopK <= 0 {
		c.Confidence.TopK = 3
	}
	if c.Confidence.Epsilon <= 0 {
		c.Confidence.Epsilon = 0.05
	}
	if c.Confidence.DegradedPenalty <= 0 || c.Confidence.DegradedPenalty > 1 {
		c.Confidence.DegradedPenalty = 0.8
	}
	if c.Retrieval.TimeoutMS <= 0 {
		c.Retrieval.TimeoutMS = 2000
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 10
	}
	if c.Retrieval.IndexName == "" {
		c.Retrieval.IndexName = "refdesk-evidence"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "refdesk:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher.threshold must be at most 1, got %g", c.Matcher.Threshold)
	}
	if c.Confidence.DefaultThreshold > 1 {
		return fmt.Errorf("confidence.default_threshold must be at most 1, got %g", c.Confidence.DefaultThreshold)
	}
	for category, threshold := range c.Confidence.CategoryThresholds {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf(
				"confidence.category_thresholds.%s must be between 0 and 1, got %g",
				category, threshold,
			)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
