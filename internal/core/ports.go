package core

import (
	"context"
)

// TextClassifier is the capability the engine requires from the trained
// model: a probability distribution over {legitimate, phishing} for one
// text input. Implementations must be safe for concurrent use; the engine
// shares a single instance across all in-flight predictions.
type TextClassifier interface {
	// Classify scores the normalized text. The returned probabilities must
	// sum to 1.0 within floating tolerance.
	Classify(ctx context.Context, normalizedText string) (Probability, error)

	// ModelID identifies the underlying model in results and logs.
	ModelID() string
}
