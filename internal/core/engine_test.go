package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClassifier returns a fixed probability and records the last text it
// was asked to classify.
type stubClassifier struct {
	mu       sync.Mutex
	prob     Probability
	err      error
	lastText string
	calls    int
}

func (s *stubClassifier) Classify(_ context.Context, text string) (Probability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastText = text
	s.calls++
	if s.err != nil {
		return Probability{}, s.err
	}
	return s.prob, nil
}

func (s *stubClassifier) ModelID() string { return "stub" }

func newTestEngine(classifier TextClassifier) *Engine {
	return NewEngine(classifier, zap.NewNop(), 0, 0, 0)
}

func TestPredictRejectsInvalidInput(t *testing.T) {
	engine := newTestEngine(&stubClassifier{prob: Probability{Legitimate: 0.9, Phishing: 0.1}})

	_, err := engine.Predict(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Predict(context.Background(), "   \t\n  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPredictRejectsOversizedInput(t *testing.T) {
	engine := NewEngine(&stubClassifier{}, zap.NewNop(), 10, 0, 0)

	_, err := engine.Predict(context.Background(), strings.Repeat("a", 11))
	require.ErrorIs(t, err, ErrInvalidInput)

	// Exactly at the limit is fine.
	_, err = engine.Predict(context.Background(), strings.Repeat("a", 10))
	require.NoError(t, err)
}

func TestPredictWithoutClassifier(t *testing.T) {
	engine := newTestEngine(nil)

	_, err := engine.Predict(context.Background(), "some text")
	require.ErrorIs(t, err, ErrModelUnavailable)

	_, err = engine.BatchPredict(context.Background(), []string{"some text"})
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestPredictPhishingVerdict(t *testing.T) {
	stub := &stubClassifier{prob: Probability{Legitimate: 0.15, Phishing: 0.85}}
	engine := newTestEngine(stub)

	text := "URGENT: verify your account at http://192.168.1.5/login or it will be suspended!!!"
	result, err := engine.Predict(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, LabelPhishing, result.Label)
	assert.InDelta(t, 1.0, result.Probability.Legitimate+result.Probability.Phishing, 1e-6)
	assert.Equal(t, 0.85, result.Confidence)
	assert.Equal(t, RiskHigh, result.RiskLevel)
	assert.Equal(t, "stub", result.ModelUsed)
	assert.NotEmpty(t, result.ProcessingID)
	assert.False(t, result.AnalyzedAt.IsZero())
	assert.Equal(t, text, result.RawTextPreview)

	require.NotNil(t, result.Features)
	assert.Equal(t, 1, result.Features.URLCount)
	assert.True(t, result.Features.HasSuspiciousURL)
	assert.Positive(t, result.Features.UrgencyScore)
	assert.Positive(t, result.Features.SuspicionScore)
}

func TestPredictLabelBoundary(t *testing.T) {
	engine := newTestEngine(&stubClassifier{prob: Probability{Legitimate: 0.5, Phishing: 0.5}})
	result, err := engine.Predict(context.Background(), "borderline text message")
	require.NoError(t, err)
	assert.Equal(t, LabelPhishing, result.Label)

	engine = newTestEngine(&stubClassifier{prob: Probability{Legitimate: 0.51, Phishing: 0.49}})
	result, err = engine.Predict(context.Background(), "borderline text message")
	require.NoError(t, err)
	assert.Equal(t, LabelLegitimate, result.Label)
}

func TestPredictClassifierSeesNormalizedText(t *testing.T) {
	stub := &stubClassifier{prob: Probability{Legitimate: 0.8, Phishing: 0.2}}
	engine := newTestEngine(stub)

	input := "Verify your ACCOUNT now!!! Visit http://bit.ly/x"
	_, err := engine.Predict(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, Normalize(input), stub.lastText)
}

func TestPredictEmptyAfterPreprocessing(t *testing.T) {
	// A classifier error proves it is never consulted on this path.
	stub := &stubClassifier{err: errors.New("must not be called")}
	engine := newTestEngine(stub)

	result, err := engine.Predict(context.Background(), "http://t.co/abc ???")
	require.NoError(t, err)

	assert.Zero(t, stub.calls)
	assert.Equal(t, LabelLegitimate, result.Label)
	assert.Equal(t, Probability{Legitimate: 0.9, Phishing: 0.1}, result.Probability)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, "text appears empty after preprocessing", result.Message)
	assert.Empty(t, result.RiskLevel)
	require.NotNil(t, result.Features)
	assert.Equal(t, 1, result.Features.URLCount)
}

func TestPredictDegradesOnClassifierFailure(t *testing.T) {
	stub := &stubClassifier{err: errors.New("backend timeout")}
	engine := newTestEngine(stub)

	result, err := engine.Predict(context.Background(), "legitimate looking message text")
	require.NoError(t, err)

	assert.Equal(t, LabelUnknown, result.Label)
	assert.Equal(t, Probability{Legitimate: 0.5, Phishing: 0.5}, result.Probability)
	assert.Zero(t, result.Confidence)
	assert.Contains(t, result.Error, "backend timeout")
}

func TestPredictPreviewTruncation(t *testing.T) {
	engine := newTestEngine(&stubClassifier{prob: Probability{Legitimate: 0.9, Phishing: 0.1}})

	long := strings.Repeat("word ", 50)
	result, err := engine.Predict(context.Background(), long)
	require.NoError(t, err)

	assert.Len(t, []rune(result.RawTextPreview), previewLength+3)
	assert.True(t, strings.HasSuffix(result.RawTextPreview, "..."))
	assert.Equal(t, long[:previewLength], result.RawTextPreview[:previewLength])
}

func TestBatchPredictValidatesSize(t *testing.T) {
	engine := NewEngine(&stubClassifier{}, zap.NewNop(), 0, 2, 0)

	_, err := engine.BatchPredict(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.BatchPredict(context.Background(), []string{"a1", "b2", "c3"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBatchPredictPreservesOrderAndIsolation(t *testing.T) {
	stub := &stubClassifier{prob: Probability{Legitimate: 0.3, Phishing: 0.7}}
	engine := newTestEngine(stub)

	texts := []string{
		"hello there, lunch tomorrow?",
		"   ",
		"URGENT verify your account at http://bit.ly/x now",
	}
	results, err := engine.BatchPredict(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	assert.Equal(t, LabelPhishing, results[0].Label)
	assert.Equal(t, texts[0], results[0].RawTextPreview)

	// The blank element degrades its own slot only.
	assert.Equal(t, LabelUnknown, results[1].Label)
	assert.Zero(t, results[1].Confidence)
	assert.Contains(t, results[1].Error, "invalid input")

	assert.Equal(t, LabelPhishing, results[2].Label)
	assert.Equal(t, texts[2], results[2].RawTextPreview)
}

func TestBatchPredictMatchesSinglePredict(t *testing.T) {
	stub := &stubClassifier{prob: Probability{Legitimate: 0.25, Phishing: 0.75}}
	engine := newTestEngine(stub)

	text := "confirm your payment details at http://secure-pay.com"
	single, err := engine.Predict(context.Background(), text)
	require.NoError(t, err)

	batch, err := engine.BatchPredict(context.Background(), []string{text})
	require.NoError(t, err)
	require.Len(t, batch, 1)

	assert.Equal(t, single.Label, batch[0].Label)
	assert.Equal(t, single.Probability, batch[0].Probability)
	assert.Equal(t, single.RiskLevel, batch[0].RiskLevel)
	assert.Equal(t, single.Features, batch[0].Features)
	assert.NotEqual(t, single.ProcessingID, batch[0].ProcessingID)
}
