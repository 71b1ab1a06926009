package factory

import (
	"time"

	"github.com/cyberguard/phishing-engine/internal/config"
	"github.com/cyberguard/phishing-engine/internal/websearch"
	"go.uber.org/zap"
)

// WebSearchFactory creates the web search chatbot service
type WebSearchFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewWebSearchFactory creates a new web search factory
func NewWebSearchFactory(cfg *config.Config, logger *zap.Logger) *WebSearchFactory {
	return &WebSearchFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateService creates the web search service with the configured
// summarizer. An unusable LLM summarizer falls back to the naive one
// instead of failing startup: web chat is an auxiliary feature.
func (f *WebSearchFactory) CreateService() *websearch.Service {
	timeout, err := f.cfg.GetDuration("websearch.timeout")
	if err != nil {
		timeout = 10 * time.Second
	}

	client := websearch.NewClient(f.cfg.GetString("websearch.endpoint"), timeout, f.logger)

	var summarizer websearch.Summarizer = websearch.NaiveSummarizer{}
	if f.cfg.GetString("websearch.summarizer") == "openai" {
		openaiCfg := f.cfg.GetOpenAI()
		s, err := websearch.NewOpenAISummarizer(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			f.logger,
		)
		if err != nil {
			f.logger.Warn("OpenAI summarizer unavailable, using naive summarizer", zap.Error(err))
		} else {
			summarizer = s
		}
	}

	return websearch.NewService(client, summarizer, f.cfg.GetInt("websearch.max_results"), f.logger)
}
