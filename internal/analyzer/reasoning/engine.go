package reasoning

import (
	"fmt"

	"github.com/amir656/polytrage/pkg/models"
)

// decayFactor is applied to confidence on every re-evaluation of a
// monitored opportunity. Stale detections drift toward SKIP on their own.
const decayFactor = 0.95

// Engine is the rule-based reasoning core. It evaluates opportunities
// against the knowledge base and produces scored, explained analyses.
// Stateless apart from the read-only knowledge base, safe for concurrent
// use.
type Engine struct {
	kb *KnowledgeBase
}

// NewEngine creates a reasoning engine with the given knowledge base.
// A nil knowledge base falls back to the default.
func NewEngine(kb *KnowledgeBase) *Engine {
	if kb == nil {
		kb = DefaultKnowledgeBase()
	}
	return &Engine{kb: kb}
}

// Evaluate scores a single opportunity. Rules run in a fixed order and
// each contributes a risk delta plus a reasoning entry; the recommendation
// and bet size are derived from the accumulated score.
func (e *Engine) Evaluate(opp models.Opportunity) models.Analysis {
	return e.evaluate(opp.Market, opp.ProfitMargin, opp.Confidence)
}

// Reevaluate re-scores a monitored analysis with confidence decay applied.
// It returns a fresh Analysis; the input is never mutated.
func (e *Engine) Reevaluate(analysis models.Analysis) models.Analysis {
	return e.evaluate(analysis.Market, analysis.ProfitMargin, analysis.Confidence*decayFactor)
}

func (e *Engine) evaluate(market string, profitMargin, confidence float64) models.Analysis {
	var reasoning []string
	riskScore := 0.0

	results := []ruleResult{
		e.kb.marginRule(profitMargin),
		e.kb.confidenceRule(confidence),
		e.kb.historyRule(market),
		e.kb.volatilityRule(),
	}

	for _, r := range results {
		riskScore += r.delta
		if r.explanation != "" {
			reasoning = append(reasoning, r.explanation)
		}
	}

	recommendation := e.recommend(profitMargin, confidence, riskScore)
	reasoning = append(reasoning, fmt.Sprintf("Recommendation: %s", recommendation))

	betSize := BetSize(profitMargin, confidence, riskScore)
	reasoning = append(reasoning, fmt.Sprintf("Bet size: %.2f%% of bankroll", betSize*100))

	return models.Analysis{
		Market:         market,
		ProfitMargin:   profitMargin,
		Confidence:     confidence,
		RiskScore:      riskScore,
		Recommendation: recommendation,
		BetSize:        betSize,
		Reasoning:      reasoning,
	}
}

// recommend maps the scored opportunity to a verdict
func (e *Engine) recommend(profitMargin, confidence, riskScore float64) models.Recommendation {
	if profitMargin > 5.0 && confidence > 70.0 && riskScore < e.kb.MaxRiskScore {
		return models.RecommendationExecute
	}
	if profitMargin > 3.0 && confidence > 60.0 && riskScore < 80.0 {
		return models.RecommendationMonitor
	}
	return models.RecommendationSkip
}
