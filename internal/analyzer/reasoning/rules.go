package reasoning

import (
	"fmt"
	"strings"
)

// ruleResult is one rule's contribution to an analysis
type ruleResult struct {
	delta       float64
	explanation string // Empty when the rule has nothing to say
}

// marginRule scores the profit margin. Margins above the knowledge base
// ceiling are treated as likely pricing errors rather than free money.
func (kb *KnowledgeBase) marginRule(profitMargin float64) ruleResult {
	if profitMargin > kb.MaxProfitMargin {
		return ruleResult{30, fmt.Sprintf("High profit margin (%.1f%%) may indicate pricing error", profitMargin)}
	}
	if profitMargin > 8.0 {
		return ruleResult{10, fmt.Sprintf("Strong profit margin (%.1f%%) detected", profitMargin)}
	}
	return ruleResult{0, fmt.Sprintf("Moderate profit margin (%.1f%%)", profitMargin)}
}

// confidenceRule scores detection confidence. Mid-range confidence is
// neutral and leaves no reasoning entry.
func (kb *KnowledgeBase) confidenceRule(confidence float64) ruleResult {
	if confidence < kb.MinConfidence {
		return ruleResult{25, fmt.Sprintf("Low confidence (%.1f%%) in opportunity", confidence)}
	}
	if confidence > 85 {
		return ruleResult{-10, fmt.Sprintf("High confidence (%.1f%%) in opportunity", confidence)}
	}
	return ruleResult{}
}

// historyRule scores the asset's historical prediction performance
func (kb *KnowledgeBase) historyRule(market string) ruleResult {
	asset := assetForMarket(market)
	stats, ok := kb.AssetHistory[asset]
	if !ok {
		return ruleResult{}
	}

	upper := strings.ToUpper(asset)
	if stats.Accuracy > 0.7 {
		return ruleResult{-5, fmt.Sprintf("Strong historical accuracy for %s predictions", upper)}
	}
	return ruleResult{10, fmt.Sprintf("Moderate historical accuracy for %s predictions", upper)}
}

// volatilityRule applies the ambient crypto volatility penalty
func (kb *KnowledgeBase) volatilityRule() ruleResult {
	if kb.CryptoVolatility > 0.7 {
		return ruleResult{15, "High crypto market volatility increases risk"}
	}
	return ruleResult{}
}

// assetForMarket classifies a market question by underlying asset. Anything
// that isn't recognizably Bitcoin falls into the ETH bucket.
func assetForMarket(market string) string {
	lowered := strings.ToLower(market)
	if strings.Contains(lowered, "bitcoin") || strings.Contains(lowered, "btc") {
		return "btc"
	}
	return "eth"
}
