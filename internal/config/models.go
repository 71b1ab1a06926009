package config

// ClassifierConfig selects the classifier provider backing the engine
type ClassifierConfig struct {
	Provider string
}

// LinearConfig represents the configuration for the native linear model
type LinearConfig struct {
	ModelPath string
}

// EngineConfig represents the detection engine limits
type EngineConfig struct {
	MaxTextLength    int
	MaxBatchSize     int
	BatchParallelism int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// KBConfig represents the knowledge base storage configuration
type KBConfig struct {
	Type       string
	Path       string
	SQLitePath string
	MySQLDSN   string
	SeedPath   string
}

// MailFilterConfig represents the Postfix mail filter configuration
type MailFilterConfig struct {
	Enabled        bool
	ListenAddress  string
	BlockHighRisk  bool
	StatusHeader   string
	RiskHeader     string
	ScoreHeader    string
	RelayEnabled   bool
	RelayAddress   string
	RelayPort      int
	TrustedDomains []string
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Provider: c.GetString("classifier.provider"),
	}
}

// GetLinear returns the native linear model configuration
func (c *Config) GetLinear() LinearConfig {
	return LinearConfig{
		ModelPath: c.GetString("linear.model_path"),
	}
}

// GetEngine returns the engine limits
func (c *Config) GetEngine() EngineConfig {
	return EngineConfig{
		MaxTextLength:    c.GetInt("engine.max_text_length"),
		MaxBatchSize:     c.GetInt("engine.max_batch_size"),
		BatchParallelism: c.GetInt("engine.batch_parallelism"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetKB returns the knowledge base configuration
func (c *Config) GetKB() KBConfig {
	return KBConfig{
		Type:       c.GetString("kb.type"),
		Path:       c.GetString("kb.path"),
		SQLitePath: c.GetString("kb.sqlite_path"),
		MySQLDSN:   c.GetString("kb.mysql_dsn"),
		SeedPath:   c.GetString("kb.seed_path"),
	}
}

// GetMailFilter returns the mail filter configuration
func (c *Config) GetMailFilter() MailFilterConfig {
	return MailFilterConfig{
		Enabled:        c.GetBool("mailfilter.enabled"),
		ListenAddress:  c.GetString("mailfilter.listen_address"),
		BlockHighRisk:  c.GetBool("mailfilter.block_high_risk"),
		StatusHeader:   c.GetString("mailfilter.headers.status"),
		RiskHeader:     c.GetString("mailfilter.headers.risk"),
		ScoreHeader:    c.GetString("mailfilter.headers.score"),
		RelayEnabled:   c.GetBool("mailfilter.relay.enabled"),
		RelayAddress:   c.GetString("mailfilter.relay.address"),
		RelayPort:      c.GetInt("mailfilter.relay.port"),
		TrustedDomains: c.GetStringSlice("mailfilter.trusted_domains"),
	}
}
