package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/cyberguard/")
	v.AddConfigPath("$HOME/.cyberguard")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("CYBERGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Classifier provider defaults
	v.SetDefault("classifier.provider", "linear")

	// Native linear model defaults
	v.SetDefault("linear.model_path", "models/phish_model.json")

	// Engine defaults
	v.SetDefault("engine.max_text_length", 10000)
	v.SetDefault("engine.max_batch_size", 50)
	v.SetDefault("engine.batch_parallelism", 8)

	// HTTP server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")
	v.SetDefault("server.include_features", true)

	// Mail filter defaults
	v.SetDefault("mailfilter.enabled", false)
	v.SetDefault("mailfilter.listen_address", "0.0.0.0:10025")
	v.SetDefault("mailfilter.block_high_risk", false)
	v.SetDefault("mailfilter.headers.status", "X-Phishing-Status")
	v.SetDefault("mailfilter.headers.risk", "X-Phishing-Risk")
	v.SetDefault("mailfilter.headers.score", "X-Phishing-Score")
	v.SetDefault("mailfilter.relay.enabled", false)
	v.SetDefault("mailfilter.relay.address", "127.0.0.1")
	v.SetDefault("mailfilter.relay.port", 10026)
	v.SetDefault("mailfilter.trusted_domains", []string{})

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Knowledge base defaults
	v.SetDefault("kb.type", "memory")
	v.SetDefault("kb.path", "data/kb.json")
	v.SetDefault("kb.sqlite_path", "/data/cyberguard_kb.db")
	v.SetDefault("kb.mysql_dsn", "user:password@tcp(localhost:3306)/cyberguard")
	v.SetDefault("kb.seed_path", "")

	// Chat defaults
	v.SetDefault("chat.top_k", 3)

	// Web search defaults
	v.SetDefault("websearch.endpoint", "")
	v.SetDefault("websearch.max_results", 4)
	v.SetDefault("websearch.timeout", "10s")
	v.SetDefault("websearch.summarizer", "naive")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
