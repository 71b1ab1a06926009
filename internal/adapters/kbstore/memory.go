// Package kbstore provides knowledge-base storage backends for the
// retrieval chatbot.
package kbstore

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/cyberguard/phishing-engine/internal/chatbot"
	"go.uber.org/zap"
)

// MemoryStore keeps the knowledge base in memory, optionally loaded from a
// JSON corpus file of [{"q": ..., "a": ...}] objects.
type MemoryStore struct {
	entries []chatbot.Entry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates an in-memory store. A missing corpus file yields
// an empty knowledge base rather than an error.
func NewMemoryStore(path string, logger *zap.Logger) (*MemoryStore, error) {
	store := &MemoryStore{logger: logger}
	if path == "" {
		return store, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Knowledge base file not found", zap.String("path", path))
			return store, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &store.entries); err != nil {
		return nil, err
	}
	return store, nil
}

// List returns a copy of the entries.
func (s *MemoryStore) List(_ context.Context) ([]chatbot.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]chatbot.Entry, len(s.entries))
	copy(entries, s.entries)
	return entries, nil
}

// Seed populates an empty store.
func (s *MemoryStore) Seed(_ context.Context, entries []chatbot.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) > 0 {
		return nil
	}
	s.entries = append(s.entries, entries...)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
