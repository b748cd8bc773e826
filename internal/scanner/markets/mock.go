package markets

import (
	"context"

	"github.com/amir656/polytrage/pkg/models"
)

// MockProvider serves a fixed set of prediction markets. Live market-data
// integration is a collaborator concern; the pipeline only needs the
// descriptor shape defined in models.Market.
type MockProvider struct{}

// NewMockProvider creates the mock market-data provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// FetchMarkets returns the demo markets
func (p *MockProvider) FetchMarkets(ctx context.Context) ([]models.Market, error) {
	return []models.Market{
		{
			ID:          "btc-100k-dec31",
			Question:    "Will Bitcoin reach $100,000 by December 31, 2024?",
			Outcome:     "YES",
			Odds:        75.0,
			Volume:      1250000,
			TargetPrice: 100000,
			Asset:       "BTC",
		},
		{
			ID:          "eth-5k-dec31",
			Question:    "Will Ethereum reach $5,000 by December 31, 2024?",
			Outcome:     "YES",
			Odds:        60.0,
			Volume:      850000,
			TargetPrice: 5000,
			Asset:       "ETH",
		},
	}, nil
}
