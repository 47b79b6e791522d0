package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultProvider selects the OpenAI-compatible adapter.
	DefaultProvider = "openai"
	// DefaultModel is used when neither the environment nor the file names a model.
	DefaultModel = "openai/gpt-4o-mini"
	// DefaultBaseURL points at OpenRouter's OpenAI-compatible API.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultTitle is sent as the X-Title attribution header.
	DefaultTitle = "StartupIdeaEvaluator"
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	defaultRequestTimeout = 180 * time.Second
	configDirName         = ".ideaeval"
)

// Config holds the application configuration.
type Config struct {
	Provider        string
	Model           string
	BaseURL         string
	APIKey          string
	AnthropicAPIKey string
	GoogleAPIKey    string
	Referer         string
	Title           string
	TimeoutSeconds  int
	LogLevel        string
	StagesPath      string
	Pricing         PricingConfig
	ConfigDir       string
}

// FileConfig represents the structure of ~/.ideaeval/config.yaml.
// API keys are deliberately absent: they are read from the environment only.
type FileConfig struct {
	Provider       string        `yaml:"provider,omitempty"`
	Model          string        `yaml:"model,omitempty"`
	BaseURL        string        `yaml:"base_url,omitempty"`
	Referer        string        `yaml:"referer,omitempty"`
	Title          string        `yaml:"title,omitempty"`
	TimeoutSeconds int           `yaml:"timeout_seconds,omitempty"`
	LogLevel       string        `yaml:"log_level,omitempty"`
	Stages         string        `yaml:"stages,omitempty"`
	Pricing        PricingConfig `yaml:"pricing,omitempty"`
}

// PricingConfig maps adapter -> model -> pricing.
type PricingConfig map[string]map[string]ModelPricing

// ModelPricing defines per-1k token pricing in USD.
type ModelPricing struct {
	PromptPer1K     float64 `yaml:"prompt_per_1k,omitempty"`
	CompletionPer1K float64 `yaml:"completion_per_1k,omitempty"`
}

// Load reads configuration from .env, the config file and environment variables.
// Environment variables take precedence over file configuration. An empty path
// means ~/.ideaeval/config.yaml, which may be absent.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	configDir := ""
	if path == "" {
		dir, err := getConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configDir = dir
		path = filepath.Join(dir, "config.yaml")
	} else {
		configDir = filepath.Dir(path)
	}

	fileConfig, err := loadFileConfig(path)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(strings.TrimSpace(getEnvOrDefault("IDEAEVAL_PROVIDER", orDefault(fileConfig.Provider, DefaultProvider))))

	// The default model id is an OpenRouter name; other providers fall back to
	// their adapter's first model instead.
	modelDefault := ""
	if provider == DefaultProvider {
		modelDefault = DefaultModel
	}

	cfg := &Config{
		Provider:        provider,
		Model:           getEnvOrDefault("OPENROUTER_MODEL", orDefault(fileConfig.Model, modelDefault)),
		BaseURL:         getEnvOrDefault("OPENAI_BASE_URL", orDefault(fileConfig.BaseURL, DefaultBaseURL)),
		APIKey:          firstEnv("OPENROUTER_API_KEY", "OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		Referer:         getEnvOrDefault("HTTP_REFERER", fileConfig.Referer),
		Title:           getEnvOrDefault("X_TITLE", orDefault(fileConfig.Title, DefaultTitle)),
		TimeoutSeconds:  fileConfig.TimeoutSeconds,
		LogLevel:        getEnvOrDefault("IDEAEVAL_LOG_LEVEL", orDefault(fileConfig.LogLevel, DefaultLogLevel)),
		StagesPath:      fileConfig.Stages,
		Pricing:         fileConfig.Pricing,
		ConfigDir:       configDir,
	}
	if cfg.StagesPath != "" && !filepath.IsAbs(cfg.StagesPath) {
		cfg.StagesPath = filepath.Join(configDir, cfg.StagesPath)
	}

	return cfg, nil
}

// RequestTimeout returns the per-call timeout, falling back to the default if not specified.
func (c *Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AttributionHeaders returns the optional attribution headers, omitting empty values.
func (c *Config) AttributionHeaders() map[string]string {
	headers := make(map[string]string)
	if c.Referer != "" {
		headers["HTTP-Referer"] = c.Referer
	}
	if c.Title != "" {
		headers["X-Title"] = c.Title
	}
	return headers
}

// HasProvider returns true if the credentials for the given provider are configured.
func (c *Config) HasProvider(name string) bool {
	switch name {
	case "openai":
		return c.APIKey != ""
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "mock":
		return true
	default:
		return false
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among the given variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}
