package models

// UserPolicy is per-user configuration gating whether and how large a trade
// may be placed. The reasoning core treats it as read-only.
type UserPolicy struct {
	UserAddress     string   `json:"user_address"`
	Bankroll        float64  `json:"bankroll"`          // USD
	MaxBetSize      float64  `json:"max_bet_size"`      // USD cap per trade
	MinBetSize      float64  `json:"min_bet_size"`      // USD floor; smaller sized trades are rejected
	MinProfitMargin float64  `json:"min_profit_margin"` // Percent
	MinConfidence   float64  `json:"min_confidence"`    // Percent
	MaxRiskScore    float64  `json:"max_risk_score"`
	ApprovedMarkets []string `json:"approved_markets"` // Substring allowlist; empty = unrestricted
	IsActive        bool     `json:"is_active"`
}

// DefaultUserPolicy returns the demo user policy
func DefaultUserPolicy() UserPolicy {
	return UserPolicy{
		UserAddress:     "0x742d35Cc6634C0532925a3b8D2C042bd8c82af",
		Bankroll:        1000.0,
		MaxBetSize:      200.0,
		MinBetSize:      10.0,
		MinProfitMargin: 4.0,
		MinConfidence:   70.0,
		MaxRiskScore:    65.0,
		ApprovedMarkets: []string{"Bitcoin", "Ethereum", "BTC", "ETH"},
		IsActive:        true,
	}
}
