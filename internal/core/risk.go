package core

// Classifier probability thresholds for the base risk level.
const (
	highRiskThreshold   = 0.8
	mediumRiskThreshold = 0.6
	lowRiskThreshold    = 0.4
)

// Suspicion thresholds for heuristic escalation.
const (
	strongSuspicionThreshold   = 0.7
	moderateSuspicionThreshold = 0.5
)

// FuseRisk combines the classifier's phishing probability with the
// heuristic suspicion score into a discrete risk level. Strong heuristic
// evidence escalates a low base level by at most one step; escalation
// never downgrades risk.
func FuseRisk(phishingProb, suspicionScore float64) RiskLevel {
	var base RiskLevel
	switch {
	case phishingProb >= highRiskThreshold:
		base = RiskHigh
	case phishingProb >= mediumRiskThreshold:
		base = RiskMedium
	case phishingProb >= lowRiskThreshold:
		base = RiskLow
	default:
		base = RiskVeryLow
	}

	if suspicionScore >= strongSuspicionThreshold && (base == RiskLow || base == RiskVeryLow) {
		return RiskMedium
	}
	if suspicionScore >= moderateSuspicionThreshold && base == RiskVeryLow {
		return RiskLow
	}
	return base
}
