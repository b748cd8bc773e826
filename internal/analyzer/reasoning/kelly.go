package reasoning

// maxBetFraction caps any single bet at 10% of bankroll
const maxBetFraction = 0.10

// BetSize computes a risk-adjusted Kelly fraction of bankroll. The win
// probability comes from detection confidence and the payout from the
// profit margin; an unfavorable edge returns 0. The result is always in
// [0, maxBetFraction].
func BetSize(profitMargin, confidence, riskScore float64) float64 {
	p := confidence / 100.0
	b := profitMargin / 100.0
	q := 1 - p

	if b <= 0 || p <= 0 {
		return 0
	}

	// Kelly fraction: f = (bp - q) / b
	kelly := (b*p - q) / b

	// Scale down as risk accumulates, but never below 10% of the raw
	// fraction
	riskAdjustment := 1.0 - riskScore/100.0
	if riskAdjustment < 0.1 {
		riskAdjustment = 0.1
	}
	adjusted := kelly * riskAdjustment

	if adjusted < 0 {
		return 0
	}
	if adjusted > maxBetFraction {
		return maxBetFraction
	}
	return adjusted
}
