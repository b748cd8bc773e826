package models

import "time"

// Opportunity represents a detected pricing discrepancy between an oracle
// price and the price implied by a prediction market's odds.
type Opportunity struct {
	// Core fields
	Market       string  `json:"market"`        // Human-readable market question
	MarketOdds   float64 `json:"market_odds"`   // Probability as percentage (0-100)
	OraclePrice  float64 `json:"oracle_price"`  // Oracle reference price
	ImpliedPrice float64 `json:"implied_price"` // Price implied by market odds
	ProfitMargin float64 `json:"profit_margin"` // Percentage difference oracle vs implied
	Confidence   float64 `json:"confidence"`    // Heuristic score (0-100)

	// Metadata
	DetectedAt time.Time `json:"detected_at"`

	// Database ID (populated after write)
	ID int64 `json:"id,omitempty"`
}

// Market represents a prediction market descriptor from the market-data provider
type Market struct {
	ID          string  `json:"id"`
	Question    string  `json:"question"`
	Outcome     string  `json:"outcome"`
	Odds        float64 `json:"odds"`   // Probability as percentage (0-100)
	Volume      float64 `json:"volume"` // Traded volume in USD
	TargetPrice float64 `json:"target_price"`
	Asset       string  `json:"asset"` // Underlying asset symbol (BTC, ETH)
}

// OraclePrice is a normalized price from the oracle feed
type OraclePrice struct {
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`      // mantissa * 10^expo, already applied
	Confidence  float64   `json:"confidence"` // Confidence interval in price units
	PublishTime time.Time `json:"publish_time"`
}
