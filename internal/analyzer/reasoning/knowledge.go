package reasoning

// AssetStats holds historical prediction performance for one asset
type AssetStats struct {
	Accuracy  float64 // Historical hit rate (0-1)
	AvgMargin float64 // Average realized profit margin (percent)
}

// KnowledgeBase holds the domain facts the rule set consults. Read-only
// after construction.
type KnowledgeBase struct {
	CryptoVolatility float64 // Ambient market volatility (0-1)
	MaxProfitMargin  float64 // Margins above this look like pricing errors
	MinConfidence    float64 // Confidence below this is penalized
	MaxRiskScore     float64 // Advisory ceiling, recorded but not enforced here
	AssetHistory     map[string]AssetStats
}

// DefaultKnowledgeBase returns the standard knowledge base
func DefaultKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		CryptoVolatility: 0.8,
		MaxProfitMargin:  15.0,
		MinConfidence:    60.0,
		MaxRiskScore:     70.0,
		AssetHistory: map[string]AssetStats{
			"btc": {Accuracy: 0.72, AvgMargin: 4.2},
			"eth": {Accuracy: 0.68, AvgMargin: 3.8},
		},
	}
}
