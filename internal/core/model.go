package core

import (
	"errors"
	"time"
)

// Label is the final classification of an analyzed text.
type Label string

const (
	LabelPhishing   Label = "phishing"
	LabelLegitimate Label = "legitimate"
	LabelUnknown    Label = "unknown"
)

// RiskLevel is the discrete, ordered severity shown to users.
type RiskLevel string

const (
	RiskVeryLow RiskLevel = "very_low"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

// riskOrder defines the total order over risk levels, lowest first.
var riskOrder = map[RiskLevel]int{
	RiskVeryLow: 0,
	RiskLow:     1,
	RiskMedium:  2,
	RiskHigh:    3,
}

// Less reports whether r is strictly below other in the risk ordering.
func (r RiskLevel) Less(other RiskLevel) bool {
	return riskOrder[r] < riskOrder[other]
}

// Probability is a two-class distribution over {legitimate, phishing}.
// The two components sum to 1.0 within floating tolerance.
type Probability struct {
	Legitimate float64 `json:"legitimate"`
	Phishing   float64 `json:"phishing"`
}

// Max returns the larger of the two class probabilities.
func (p Probability) Max() float64 {
	if p.Legitimate > p.Phishing {
		return p.Legitimate
	}
	return p.Phishing
}

// FeatureSet bundles every heuristic signal extracted from a single input,
// returned alongside the prediction for explainability.
type FeatureSet struct {
	URLCount             int      `json:"url_count"`
	HasSuspiciousURL     bool     `json:"has_suspicious_url"`
	SuspiciousDomains    []string `json:"suspicious_domains"`
	UrgencyScore         int      `json:"urgency_score"`
	FinancialScore       int      `json:"financial_score"`
	ThreatScore          int      `json:"threat_score"`
	ActionScore          int      `json:"action_score"`
	ExcessivePunctuation int      `json:"excessive_punctuation"`
	CapsWordsCount       int      `json:"caps_words_count"`
	TextLength           int      `json:"text_length"`
	WordCount            int      `json:"word_count"`
	SuspicionScore       float64  `json:"suspicion_score"`
}

// PredictionResult is the full outcome of one prediction. It is built once
// per call and never mutated afterwards.
type PredictionResult struct {
	Label          Label       `json:"prediction"`
	Probability    Probability `json:"probability"`
	Confidence     float64     `json:"confidence"`
	RiskLevel      RiskLevel   `json:"risk_level,omitempty"`
	Features       *FeatureSet `json:"features,omitempty"`
	RawTextPreview string      `json:"raw_text"`
	Message        string      `json:"message,omitempty"`
	Error          string      `json:"error,omitempty"`
	ModelUsed      string      `json:"model_used,omitempty"`
	ProcessingID   string      `json:"processing_id,omitempty"`
	AnalyzedAt     time.Time   `json:"analyzed_at"`
}

var (
	// ErrInvalidInput is returned for empty or oversized input. It is one of
	// only two errors that surface to callers; everything else degrades into
	// a low-confidence PredictionResult.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelUnavailable means no classifier model was loaded at startup.
	// Every prediction fails with it until the process is restarted with a
	// valid model; it is never retried per request.
	ErrModelUnavailable = errors.New("classifier model unavailable")
)
