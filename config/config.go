package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSystemPrompt instructs the external responder when none is configured.
const DefaultSystemPrompt = "You are a friendly, non-judgemental sexual and reproductive health assistant for young people. " +
	"Answer accurately and briefly in plain language, encourage safe and consensual choices, " +
	"and suggest visiting a youth-friendly clinic or trusted adult when personal medical advice is needed."

// LLMProvider defines the structure for LLM provider configuration.
type LLMProvider struct {
	APIKey  string `mapstructure:"api_key"` // Name of the environment variable holding the API key
	BaseURL string `mapstructure:"base_url"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
		Mode string
	}
	Database struct {
		DSN string // "memory" or a SQLite file path
	}
	Content struct {
		Dir      string
		Watch    bool
		Debounce time.Duration
	}
	Engine struct {
		DefaultAgeGroup    string `mapstructure:"default_age_group"`
		DefaultPersonality string `mapstructure:"default_personality"`
		Seed               uint64
	}
	Responder struct {
		Enabled      bool
		Provider     string
		Model        string
		SystemPrompt string `mapstructure:"system_prompt"`
		HistoryLimit int    `mapstructure:"history_limit"`
		Timeout      time.Duration
	}
	LLMProviders map[string]LLMProvider `mapstructure:"llm_providers"`
	History      struct {
		Limit int
	}
	Metrics struct {
		Enabled bool
	}
}

// AppConfig is the global configuration instance.
var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.dsn", "memory")
	v.SetDefault("content.dir", "")
	v.SetDefault("content.watch", false)
	v.SetDefault("content.debounce", "250ms")
	v.SetDefault("engine.default_age_group", "18-25")
	v.SetDefault("engine.default_personality", "friendly")
	v.SetDefault("engine.seed", 0)
	v.SetDefault("responder.enabled", false)
	v.SetDefault("responder.provider", "groq")
	v.SetDefault("responder.model", "llama-3.1-8b-instant")
	v.SetDefault("responder.system_prompt", DefaultSystemPrompt)
	v.SetDefault("responder.history_limit", 10)
	v.SetDefault("responder.timeout", "20s")
	v.SetDefault("history.limit", 50)
	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from path, or from config.yaml in the usual
// locations when path is empty, then applies SRHBOT_* environment overrides.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("../config") // For running from locations like tests
	}

	v.SetEnvPrefix("SRHBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
	} else {
		log.Printf("INFO: [Config] Using configuration file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Provider API keys are stored as the name of the environment variable holding them.
	for key, provider := range cfg.LLMProviders {
		envVar := provider.APIKey
		if envValue := os.Getenv(envVar); envValue != "" {
			provider.APIKey = envValue
			cfg.LLMProviders[key] = provider
			log.Printf("INFO: [Config] Loaded API Key for provider '%s' from environment variable '%s'.", key, envVar)
		} else {
			provider.APIKey = ""
			cfg.LLMProviders[key] = provider
			log.Printf("WARN: [Config] API Key for provider '%s' (env var '%s') is not set.", key, envVar)
		}
	}

	return &cfg, nil
}

// LoadConfig loads configuration into AppConfig.
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = *cfg
	log.Println("INFO: [Config] Configuration loading complete.")
	return nil
}
