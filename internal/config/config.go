package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds the application configuration. It is built once at startup
// and passed by value afterwards.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Log     LogConfig     `mapstructure:"log"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

// LLMConfig holds the completion service configuration
type LLMConfig struct {
	Provider       string        `mapstructure:"provider"`
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LogConfig holds the logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ArchiveConfig enables the report archive when Path is set.
type ArchiveConfig struct {
	Path string `mapstructure:"path"`
}

// ConfigurationError reports required settings that are missing or invalid.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required setting(s): "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid setting(s): "+strings.Join(e.Invalid, ", "))
	}
	return "configuration: " + strings.Join(parts, "; ")
}

// envBindings maps config keys to the environment variables that may set
// them, in order of precedence.
var envBindings = map[string][]string{
	"llm.provider":        {"LLM_PROVIDER"},
	"llm.base_url":        {"OPENROUTER_BASE_URL", "LLM_BASE_URL"},
	"llm.api_key":         {"OPENROUTER_API_KEY", "LLM_API_KEY"},
	"llm.model":           {"MODEL_NAME", "LLM_MODEL"},
	"llm.request_timeout": {"LLM_REQUEST_TIMEOUT"},
	"log.level":           {"LOG_LEVEL"},
	"archive.path":        {"ARCHIVE_PATH"},
}

// New returns a viper instance with defaults and environment bindings in
// place. Callers may bind flags on it before passing it to Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.request_timeout", 2*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("archive.path", "")
	for key, envs := range envBindings {
		// BindEnv only fails when no key is given.
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

// Load reads the optional YAML file, applies environment overrides and
// validates the result. path wins over CONFIG_PATH; when both are empty
// config.yaml in the working directory is used if present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	var cerr ConfigurationError
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		cerr.Missing = append(cerr.Missing, "llm.base_url (OPENROUTER_BASE_URL)")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		cerr.Missing = append(cerr.Missing, "llm.api_key (OPENROUTER_API_KEY)")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		cerr.Missing = append(cerr.Missing, "llm.model (MODEL_NAME)")
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("llm.provider %q", c.LLM.Provider))
	}
	if c.LLM.RequestTimeout <= 0 {
		cerr.Invalid = append(cerr.Invalid, "llm.request_timeout must be > 0")
	}
	if len(cerr.Missing) > 0 || len(cerr.Invalid) > 0 {
		return &cerr
	}
	return nil
}
