package factory

import (
	"fmt"

	"github.com/cyberguard/phishing-engine/internal/adapters/bedrock"
	"github.com/cyberguard/phishing-engine/internal/adapters/gemini"
	"github.com/cyberguard/phishing-engine/internal/adapters/linear"
	"github.com/cyberguard/phishing-engine/internal/adapters/openai"
	"github.com/cyberguard/phishing-engine/internal/config"
	"github.com/cyberguard/phishing-engine/internal/core"
	"go.uber.org/zap"
)

// ClassifierFactory creates text classifiers based on configuration
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates a classifier for the configured provider. The
// native linear model is the default; the LLM providers are drop-in
// alternatives behind the same port.
func (f *ClassifierFactory) CreateClassifier() (core.TextClassifier, error) {
	provider := f.cfg.GetClassifier().Provider

	switch provider {
	case "linear":
		return linear.NewClassifier(f.cfg.GetLinear().ModelPath, f.logger)
	case "openai":
		c := f.cfg.GetOpenAI()
		return openai.NewClassifier(
			c.APIKey,
			c.ModelName,
			c.MaxTokens,
			c.Temperature,
			c.TopP,
			c.MaxBodySize,
			f.logger,
		)
	case "gemini":
		c := f.cfg.GetGemini()
		return gemini.NewClassifier(
			c.APIKey,
			c.ModelName,
			c.MaxTokens,
			c.Temperature,
			c.TopP,
			c.MaxBodySize,
			f.logger,
		)
	case "bedrock":
		c := f.cfg.GetBedrock()
		return bedrock.NewClassifier(
			c.Region,
			c.ModelID,
			c.MaxTokens,
			c.Temperature,
			c.TopP,
			c.MaxBodySize,
			f.logger,
		)
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", provider)
	}
}
