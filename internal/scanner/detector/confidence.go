package detector

import "github.com/amir656/polytrage/pkg/models"

// scoreConfidence computes the opportunity confidence heuristic.
// Base 50, adjusted by volume, profit margin, and oracle price precision
// tiers, clamped to [0, 100].
func scoreConfidence(market models.Market, priceData models.OraclePrice, profitMargin float64) float64 {
	confidence := 50.0

	// Volume factor
	if market.Volume > 1000000 {
		confidence += 20
	} else if market.Volume > 100000 {
		confidence += 10
	}

	// Profit margin factor
	if profitMargin > 10 {
		confidence += 30
	} else if profitMargin > 5 {
		confidence += 20
	} else if profitMargin > 3 {
		confidence += 10
	}

	// Oracle price precision factor: tighter confidence intervals relative
	// to price mean a more trustworthy reference
	confRatio := priceData.Confidence / priceData.Price
	if confRatio < 0.001 {
		confidence += 15
	} else if confRatio < 0.01 {
		confidence += 10
	} else if confRatio > 0.05 {
		confidence -= 10
	}

	return clamp(confidence, 0, 100)
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
