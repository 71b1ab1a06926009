package core

// Fixed weights for the suspicion score. The contributions are summed, not
// averaged: absolute cue count is privileged over cue density, and the
// clamp below bounds pathological inputs.
const (
	urgencyWeight       = 0.20
	financialWeight     = 0.15
	threatWeight        = 0.25
	actionWeight        = 0.10
	suspiciousURLWeight = 0.30
)

// SuspicionScore combines the URL and lexical signals into a single bounded
// heuristic score in [0,1], independent of the statistical classifier.
func SuspicionScore(urlF URLFeatures, lexF LexicalFeatures) float64 {
	score := float64(lexF.UrgencyScore)*urgencyWeight +
		float64(lexF.FinancialScore)*financialWeight +
		float64(lexF.ThreatScore)*threatWeight +
		float64(lexF.ActionScore)*actionWeight
	if urlF.HasSuspiciousURL {
		score += suspiciousURLWeight
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
