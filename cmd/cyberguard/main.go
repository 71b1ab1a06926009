package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cyberguard/phishing-engine/internal/adapters/httpapi"
	"github.com/cyberguard/phishing-engine/internal/adapters/mailfilter"
	"github.com/cyberguard/phishing-engine/internal/chatbot"
	"github.com/cyberguard/phishing-engine/internal/config"
	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/di"
	"github.com/cyberguard/phishing-engine/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	server *httpapi.Server,
	filter *mailfilter.PostfixFilter,
	classifier core.TextClassifier,
	store chatbot.KnowledgeStore,
) error {
	defer logger.Sync()

	surfaces := []ports.Surface{server}
	if cfg.GetMailFilter().Enabled {
		surfaces = append(surfaces, filter)
	}

	for _, surface := range surfaces {
		if err := surface.Start(); err != nil {
			logger.Fatal("Failed to start surface", zap.Error(err))
			return err
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop in reverse start order
	for i := len(surfaces) - 1; i >= 0; i-- {
		if err := surfaces[i].Stop(); err != nil {
			logger.Error("Failed to stop surface", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("Failed to close knowledge base store", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
