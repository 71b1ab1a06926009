package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyberguard/phishing-engine/internal/adapters/kbstore"
	"github.com/cyberguard/phishing-engine/internal/chatbot"
	"github.com/cyberguard/phishing-engine/internal/config"
	"go.uber.org/zap"
)

// KBFactory creates knowledge base stores based on configuration
type KBFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewKBFactory creates a new knowledge base factory
func NewKBFactory(cfg *config.Config, logger *zap.Logger) *KBFactory {
	return &KBFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates a knowledge store based on the configuration and
// seeds database-backed stores from the configured corpus file when they
// are empty.
func (f *KBFactory) CreateStore() (chatbot.KnowledgeStore, error) {
	kbConfig := f.cfg.GetKB()

	var store chatbot.KnowledgeStore
	var err error
	switch kbConfig.Type {
	case "memory":
		store, err = kbstore.NewMemoryStore(kbConfig.Path, f.logger)
	case "sqlite":
		if mkErr := os.MkdirAll(filepath.Dir(kbConfig.SQLitePath), 0755); mkErr != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", mkErr)
		}
		store, err = kbstore.NewSQLiteStore(kbConfig.SQLitePath, f.logger)
	case "mysql":
		store, err = kbstore.NewMySQLStore(kbConfig.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported knowledge base type: %s", kbConfig.Type)
	}
	if err != nil {
		return nil, err
	}

	if kbConfig.SeedPath != "" {
		if seedErr := f.seedFromFile(store, kbConfig.SeedPath); seedErr != nil {
			f.logger.Warn("Failed to seed knowledge base", zap.Error(seedErr))
		}
	}
	return store, nil
}

// seedFromFile imports a JSON corpus into an empty store.
func (f *KBFactory) seedFromFile(store chatbot.KnowledgeStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var entries []chatbot.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	return store.Seed(context.Background(), entries)
}
