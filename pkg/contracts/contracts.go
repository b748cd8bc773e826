package contracts

import (
	"context"

	"github.com/amir656/polytrage/pkg/models"
)

// PriceFeedProvider fetches normalized oracle prices keyed by asset symbol
type PriceFeedProvider interface {
	// FetchPrices returns the latest price per configured asset symbol
	FetchPrices(ctx context.Context) (map[string]models.OraclePrice, error)
}

// MarketProvider fetches prediction market descriptors
type MarketProvider interface {
	// FetchMarkets returns the currently tracked markets
	FetchMarkets(ctx context.Context) ([]models.Market, error)
}

// OpportunityDetector analyzes a single market against oracle prices
type OpportunityDetector interface {
	// Detect returns the derived opportunity, or nil when the market's asset
	// has no oracle price
	Detect(market models.Market, prices map[string]models.OraclePrice) *models.Opportunity
}

// ExecutionClient is the non-custodial execution layer. Execute places a
// sized, policy-approved trade and returns the transaction hash. An
// authorization failure (invalid delegation) surfaces as an error and must
// be converted to a failed TradeExecution at the component boundary.
type ExecutionClient interface {
	Execute(ctx context.Context, trade models.SizedTrade, policy models.UserPolicy) (string, error)
}
