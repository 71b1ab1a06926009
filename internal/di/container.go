package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/cyberguard/phishing-engine/internal/adapters/httpapi"
	"github.com/cyberguard/phishing-engine/internal/adapters/mailfilter"
	"github.com/cyberguard/phishing-engine/internal/chatbot"
	"github.com/cyberguard/phishing-engine/internal/config"
	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/factory"
	"github.com/cyberguard/phishing-engine/internal/logging"
	"github.com/cyberguard/phishing-engine/internal/websearch"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewKBFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewWebSearchFactory); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.TextClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register detection engine
	if err := container.Provide(func(
		classifier core.TextClassifier,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.Engine {
		engineCfg := cfg.GetEngine()
		return core.NewEngine(
			classifier,
			logger,
			engineCfg.MaxTextLength,
			engineCfg.MaxBatchSize,
			engineCfg.BatchParallelism,
		)
	}); err != nil {
		return nil, err
	}

	// Register knowledge base store
	if err := container.Provide(func(f *factory.KBFactory) (chatbot.KnowledgeStore, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}

	// Register KB retriever
	if err := container.Provide(func(store chatbot.KnowledgeStore, logger *zap.Logger) (*chatbot.Retriever, error) {
		return chatbot.NewRetriever(context.Background(), store, logger)
	}); err != nil {
		return nil, err
	}

	// Register web search service
	if err := container.Provide(func(f *factory.WebSearchFactory) *websearch.Service {
		return f.CreateService()
	}); err != nil {
		return nil, err
	}

	// Register HTTP API server
	if err := container.Provide(func(
		engine *core.Engine,
		retriever *chatbot.Retriever,
		webchat *websearch.Service,
		cfg *config.Config,
		logger *zap.Logger,
	) *httpapi.Server {
		return httpapi.NewServer(
			engine,
			retriever,
			webchat,
			logger,
			cfg.GetString("server.listen_address"),
			cfg.GetBool("server.include_features"),
			cfg.GetInt("chat.top_k"),
		)
	}); err != nil {
		return nil, err
	}

	// Register Postfix mail filter
	if err := container.Provide(func(
		engine *core.Engine,
		cfg *config.Config,
		logger *zap.Logger,
	) *mailfilter.PostfixFilter {
		return mailfilter.NewPostfixFilter(engine, logger, cfg.GetMailFilter())
	}); err != nil {
		return nil, err
	}

	return container, nil
}
