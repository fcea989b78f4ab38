package pipeline

import "time"

// ============================================================================
// DERIVATION — Pure functions of already-resolved columns
// ============================================================================

const hoursPerDay = 24

// revenue is the money a row represents: item price plus freight.
func revenue(price, freight float64) float64 {
	return price + freight
}

// deliveryDays is the purchase-to-delivery duration in days.
// Zero when the order was never delivered.
func deliveryDays(purchased, delivered time.Time) float64 {
	if delivered.IsZero() || purchased.IsZero() {
		return 0
	}
	return delivered.Sub(purchased).Hours() / hoursPerDay
}

// delayDays is how far past the estimate the delivery landed, in days.
// Negative means early. Zero when the order was never delivered.
func delayDays(estimated, delivered time.Time) float64 {
	if delivered.IsZero() || estimated.IsZero() {
		return 0
	}
	return delivered.Sub(estimated).Hours() / hoursPerDay
}

// isLate reports whether delivery landed after the estimate.
// Undelivered orders are never flagged late — lateness is a fact about a
// completed delivery, not a prediction.
func isLate(estimated, delivered time.Time) bool {
	if delivered.IsZero() || estimated.IsZero() {
		return false
	}
	return delivered.After(estimated)
}

// reviewBucket maps a 1–5 score to a sentiment bucket.
func reviewBucket(score int) string {
	switch {
	case score >= 4:
		return "positive"
	case score == 3:
		return "neutral"
	case score >= 1:
		return "negative"
	default:
		return ""
	}
}
