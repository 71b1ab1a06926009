package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "linear", cfg.GetClassifier().Provider)
	assert.Equal(t, "models/phish_model.json", cfg.GetLinear().ModelPath)

	engine := cfg.GetEngine()
	assert.Equal(t, 10000, engine.MaxTextLength)
	assert.Equal(t, 50, engine.MaxBatchSize)
	assert.Equal(t, 8, engine.BatchParallelism)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetString("server.listen_address"))
	assert.True(t, cfg.GetBool("server.include_features"))
	assert.Equal(t, 3, cfg.GetInt("chat.top_k"))
	assert.Equal(t, "memory", cfg.GetKB().Type)

	mf := cfg.GetMailFilter()
	assert.False(t, mf.Enabled)
	assert.Equal(t, "0.0.0.0:10025", mf.ListenAddress)
	assert.Equal(t, "X-Phishing-Status", mf.StatusHeader)
	assert.Equal(t, "X-Phishing-Risk", mf.RiskHeader)
	assert.Equal(t, "X-Phishing-Score", mf.ScoreHeader)
	assert.Equal(t, 10026, mf.RelayPort)
	assert.Empty(t, mf.TrustedDomains)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("classifier.provider", "openai")
	v.Set("engine.max_batch_size", 10)
	v.Set("mailfilter.trusted_domains", []string{"example.com"})
	cfg := NewFromViper(v)

	assert.Equal(t, "openai", cfg.GetClassifier().Provider)
	assert.Equal(t, 10, cfg.GetEngine().MaxBatchSize)
	assert.Equal(t, []string{"example.com"}, cfg.GetMailFilter().TrustedDomains)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CYBERGUARD_CLASSIFIER_PROVIDER", "gemini")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.GetClassifier().Provider)
}
