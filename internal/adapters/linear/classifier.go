// Package linear adapts the natively loaded TF-IDF logistic-regression
// artifact to the engine's TextClassifier port.
package linear

import (
	"context"
	"fmt"

	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/ml"
	"go.uber.org/zap"
)

// Classifier is the default, in-process classifier. The model is loaded
// once at startup and never mutated, so concurrent Classify calls are safe
// without locking.
type Classifier struct {
	model  *ml.Model
	logger *zap.Logger
}

// NewClassifier loads the trained model artifact from modelPath. A missing
// or corrupt artifact wraps core.ErrModelUnavailable: the process cannot
// serve predictions and the failure is not retried per request.
func NewClassifier(modelPath string, logger *zap.Logger) (*Classifier, error) {
	model, err := ml.LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrModelUnavailable, err)
	}

	logger.Info("Loaded classifier model",
		zap.String("path", modelPath),
		zap.String("model", model.Name()))

	return &Classifier{model: model, logger: logger}, nil
}

// NewClassifierFromModel wraps an already constructed model. Used by tests
// and by callers that assemble artifacts in memory.
func NewClassifierFromModel(model *ml.Model, logger *zap.Logger) *Classifier {
	return &Classifier{model: model, logger: logger}
}

// Classify scores the normalized text. Empty input is still scored; the
// model degenerates to its intercept probability in that case.
func (c *Classifier) Classify(_ context.Context, normalizedText string) (core.Probability, error) {
	p := c.model.PhishingProbability(normalizedText)
	return core.Probability{Legitimate: 1 - p, Phishing: p}, nil
}

// ModelID identifies the loaded artifact.
func (c *Classifier) ModelID() string {
	return c.model.Name()
}
