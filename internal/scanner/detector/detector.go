package detector

import (
	"time"

	"github.com/amir656/polytrage/pkg/models"
)

// timeFactor is the fixed "90% of period remaining" assumption used by the
// implied-price formula. Deliberately simplistic; kept literal for
// compatibility with downstream scoring thresholds.
const timeFactor = 0.9

// Detector derives arbitrage opportunities from market descriptors and
// oracle prices. Pure computation, safe for concurrent use.
type Detector struct{}

// New creates a detector
func New() *Detector {
	return &Detector{}
}

// Detect analyzes a single market against the oracle prices. Returns nil
// when the market's asset has no oracle price.
func (d *Detector) Detect(market models.Market, prices map[string]models.OraclePrice) *models.Opportunity {
	priceData, ok := prices[market.Asset]
	if !ok {
		return nil
	}

	// Implied current price from market odds: if the market prices a 75%
	// chance of hitting the target, back out what spot "should" be with
	// most of the period remaining.
	impliedProbability := market.Odds / 100
	impliedPrice := market.TargetPrice * (1 - impliedProbability*timeFactor)

	profitMargin := (priceData.Price - impliedPrice) / impliedPrice * 100

	confidence := scoreConfidence(market, priceData, profitMargin)

	return &models.Opportunity{
		Market:       market.Question,
		MarketOdds:   market.Odds,
		OraclePrice:  priceData.Price,
		ImpliedPrice: impliedPrice,
		ProfitMargin: profitMargin,
		Confidence:   confidence,
		DetectedAt:   time.Now(),
	}
}
