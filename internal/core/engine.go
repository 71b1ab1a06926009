package core

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// previewLength bounds the raw text echoed back in results.
const previewLength = 100

// Engine is the phishing detection pipeline: it normalizes input, runs the
// heuristic extractors and the statistical classifier, and fuses both into
// a single calibrated verdict. One instance is constructed at startup and
// shared read-only by all in-flight requests.
type Engine struct {
	classifier       TextClassifier
	logger           *zap.Logger
	maxTextLength    int
	maxBatchSize     int
	batchParallelism int
}

// NewEngine creates a new detection engine around the given classifier.
func NewEngine(
	classifier TextClassifier,
	logger *zap.Logger,
	maxTextLength int,
	maxBatchSize int,
	batchParallelism int,
) *Engine {
	if maxTextLength <= 0 {
		maxTextLength = 10000
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 50
	}
	if batchParallelism <= 0 {
		batchParallelism = 8
	}
	return &Engine{
		classifier:       classifier,
		logger:           logger,
		maxTextLength:    maxTextLength,
		maxBatchSize:     maxBatchSize,
		batchParallelism: batchParallelism,
	}
}

// Predict classifies a single text. Only ErrInvalidInput and
// ErrModelUnavailable surface as errors; every other failure collapses
// into a degraded but valid result, because callers must always have a
// verdict to render.
func (e *Engine) Predict(ctx context.Context, text string) (*PredictionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > e.maxTextLength {
		return nil, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, e.maxTextLength)
	}
	if e.classifier == nil {
		return nil, ErrModelUnavailable
	}

	features := e.extractFeatures(text)
	normalized := Normalize(text)

	// Nothing left after preprocessing means there is not enough signal to
	// flag; the engine deliberately leans legitimate instead of erroring.
	if normalized == "" {
		return &PredictionResult{
			Label:          LabelLegitimate,
			Probability:    Probability{Legitimate: 0.9, Phishing: 0.1},
			Confidence:     0.9,
			Features:       features,
			RawTextPreview: preview(text),
			Message:        "text appears empty after preprocessing",
			ModelUsed:      e.classifier.ModelID(),
			ProcessingID:   uuid.NewString(),
			AnalyzedAt:     time.Now(),
		}, nil
	}

	prob, err := e.classifier.Classify(ctx, normalized)
	if err != nil {
		e.logger.Error("Classification failed",
			zap.Error(err),
			zap.String("model", e.classifier.ModelID()))
		return e.degradedResult(text, features, err), nil
	}

	label := LabelLegitimate
	if prob.Phishing >= 0.5 {
		label = LabelPhishing
	}

	return &PredictionResult{
		Label:          label,
		Probability:    prob,
		Confidence:     prob.Max(),
		RiskLevel:      FuseRisk(prob.Phishing, features.SuspicionScore),
		Features:       features,
		RawTextPreview: preview(text),
		ModelUsed:      e.classifier.ModelID(),
		ProcessingID:   uuid.NewString(),
		AnalyzedAt:     time.Now(),
	}, nil
}

// BatchPredict classifies up to maxBatchSize texts. The output is
// order-preserving and the same length as the input; elements are
// independent, so one bad text degrades its own slot without aborting
// the rest of the batch.
func (e *Engine) BatchPredict(ctx context.Context, texts []string) ([]*PredictionResult, error) {
	if len(texts) == 0 || len(texts) > e.maxBatchSize {
		return nil, fmt.Errorf("%w: batch size must be 1..%d, got %d",
			ErrInvalidInput, e.maxBatchSize, len(texts))
	}
	if e.classifier == nil {
		return nil, ErrModelUnavailable
	}

	results := make([]*PredictionResult, len(texts))
	g := new(errgroup.Group)
	g.SetLimit(e.batchParallelism)

	for i, text := range texts {
		g.Go(func() error {
			res, err := e.Predict(ctx, text)
			if err != nil {
				// Per-element invalid input degrades only its own slot.
				res = e.degradedResult(text, nil, err)
			}
			results[i] = res
			return nil
		})
	}
	// Workers never return errors; Wait is only a gather barrier.
	_ = g.Wait()

	return results, nil
}

// extractFeatures runs both heuristic extractors on the raw text and fuses
// their outputs into the suspicion score. A panicking extractor is
// recovered locally and its features default to neutral values.
func (e *Engine) extractFeatures(rawText string) *FeatureSet {
	urlF := e.safeURLFeatures(rawText)
	lexF := e.safeLexicalFeatures(rawText)

	return &FeatureSet{
		URLCount:             urlF.URLCount,
		HasSuspiciousURL:     urlF.HasSuspiciousURL,
		SuspiciousDomains:    urlF.SuspiciousDomains,
		UrgencyScore:         lexF.UrgencyScore,
		FinancialScore:       lexF.FinancialScore,
		ThreatScore:          lexF.ThreatScore,
		ActionScore:          lexF.ActionScore,
		ExcessivePunctuation: lexF.ExcessivePunctuation,
		CapsWordsCount:       lexF.CapsWordsCount,
		TextLength:           lexF.TextLength,
		WordCount:            lexF.WordCount,
		SuspicionScore:       SuspicionScore(urlF, lexF),
	}
}

func (e *Engine) safeURLFeatures(rawText string) (features URLFeatures) {
	features.SuspiciousDomains = []string{}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("URL feature extraction failed, using neutral defaults",
				zap.Any("panic", r))
		}
	}()
	return ExtractURLFeatures(rawText)
}

func (e *Engine) safeLexicalFeatures(rawText string) (features LexicalFeatures) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Lexical feature extraction failed, using neutral defaults",
				zap.Any("panic", r))
		}
	}()
	return ExtractLexicalFeatures(rawText)
}

// degradedResult packages a failure as an unknown-labeled verdict with
// zero confidence and whatever features were computed before the failure.
func (e *Engine) degradedResult(text string, features *FeatureSet, cause error) *PredictionResult {
	modelID := ""
	if e.classifier != nil {
		modelID = e.classifier.ModelID()
	}
	return &PredictionResult{
		Label:          LabelUnknown,
		Probability:    Probability{Legitimate: 0.5, Phishing: 0.5},
		Confidence:     0.0,
		Features:       features,
		RawTextPreview: preview(text),
		Error:          cause.Error(),
		ModelUsed:      modelID,
		ProcessingID:   uuid.NewString(),
		AnalyzedAt:     time.Now(),
	}
}

// preview returns at most previewLength characters of text, marking
// truncation with an ellipsis.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
