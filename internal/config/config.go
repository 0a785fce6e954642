// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Service credentials live
// here and are handed to each client at construction time; nothing reads the
// environment after startup.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Detection DetectionConfig `yaml:"ai_detection"`
	FactCheck FactCheckConfig `yaml:"fact_check"`
	Research  ResearchConfig  `yaml:"research"`
	Limits    LimitConfig     `yaml:"rate_limits"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// DetectionConfig configures the AI-content-detection service client.
type DetectionConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// FactCheckConfig configures the claim-verification model client.
type FactCheckConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// ResearchConfig configures the real-time research model client.
type ResearchConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type LimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Detection: DetectionConfig{
			BaseURL: "https://api.sapling.ai/api/v1/aidetect",
		},
		FactCheck: FactCheckConfig{
			BaseURL:     "https://api.x.ai/v1",
			Model:       "grok-beta",
			Temperature: 0.3,
		},
		Research: ResearchConfig{
			BaseURL:     "https://api.perplexity.ai",
			Model:       "sonar-pro",
			Temperature: 0.2,
			MaxTokens:   1500,
		},
		Limits: LimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Veriscope Configuration

server:
  port: 8080

ai_detection:
  api_key: ${SAPLING_API_KEY}
  base_url: https://api.sapling.ai/api/v1/aidetect

fact_check:
  api_key: ${XAI_API_KEY}
  base_url: https://api.x.ai/v1
  model: grok-beta
  temperature: 0.3

research:
  api_key: ${PERPLEXITY_API_KEY}
  base_url: https://api.perplexity.ai
  model: sonar-pro
  temperature: 0.2
  max_tokens: 1500

rate_limits:
  requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Detection.APIKey == "" {
		return fmt.Errorf("AI detection API key is required")
	}
	if c.FactCheck.APIKey == "" {
		return fmt.Errorf("fact check API key is required")
	}
	if c.Research.APIKey == "" {
		return fmt.Errorf("research API key is required")
	}
	if c.Research.MaxTokens < 1 {
		return fmt.Errorf("research max_tokens must be positive")
	}
	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
