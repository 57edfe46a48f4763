package usecase

import "crypto_backend/internal/feature/analysis/domain/entity"

// DefaultConfidenceThreshold is the minimum confidence for automatic execution.
const DefaultConfidenceThreshold = 0.7

// EffectiveThreshold returns the gate applied to a request. A requested value can
// raise the threshold but never lower it below DefaultConfidenceThreshold.
func EffectiveThreshold(requested *float64) float64 {
	if requested == nil || *requested < DefaultConfidenceThreshold {
		return DefaultConfidenceThreshold
	}
	return min(*requested, 1)
}

// ShouldAutoTrade reports whether d may be executed automatically.
func ShouldAutoTrade(d entity.TradeDecision, threshold float64) bool {
	return d.Action != entity.DecisionHold && d.Confidence > threshold
}
