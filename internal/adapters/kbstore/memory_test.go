package kbstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyberguard/phishing-engine/internal/chatbot"
)

func TestMemoryStoreLoadsCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	corpus := `[{"q": "what is phishing", "a": "an attack"}, {"q": "what is smishing", "a": "sms phishing"}]`
	require.NoError(t, os.WriteFile(path, []byte(corpus), 0o644))

	store, err := NewMemoryStore(path, zap.NewNop())
	require.NoError(t, err)

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "what is phishing", entries[0].Question)
	assert.Equal(t, "an attack", entries[0].Answer)
}

func TestMemoryStoreMissingFileIsEmpty(t *testing.T) {
	store, err := NewMemoryStore(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	require.NoError(t, err)

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryStoreMalformedCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := NewMemoryStore(path, zap.NewNop())
	require.Error(t, err)
}

func TestMemoryStoreSeedOnlyWhenEmpty(t *testing.T) {
	store, err := NewMemoryStore("", zap.NewNop())
	require.NoError(t, err)

	seed := []chatbot.Entry{{Question: "q1", Answer: "a1"}}
	require.NoError(t, store.Seed(context.Background(), seed))

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// A second seed against a populated store is ignored.
	require.NoError(t, store.Seed(context.Background(), []chatbot.Entry{{Question: "q2", Answer: "a2"}}))
	entries, err = store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.NoError(t, store.Close())
}
