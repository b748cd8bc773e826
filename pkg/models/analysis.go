package models

// Recommendation is the reasoning engine's verdict for an opportunity
type Recommendation string

const (
	RecommendationExecute Recommendation = "EXECUTE" // Trade immediately
	RecommendationMonitor Recommendation = "MONITOR" // Park and re-evaluate
	RecommendationSkip    Recommendation = "SKIP"    // Discard
)

// Analysis is the scored, explained output of the reasoning engine for one
// opportunity. A new Analysis is produced on every evaluation pass; re-scoring
// after confidence decay never mutates an existing one.
type Analysis struct {
	Market         string         `json:"market"`
	ProfitMargin   float64        `json:"profit_margin"`
	Confidence     float64        `json:"confidence"`
	RiskScore      float64        `json:"risk_score"` // Unbounded accumulator, higher = less safe
	Recommendation Recommendation `json:"recommendation"`
	BetSize        float64        `json:"bet_size"` // Fraction of bankroll, always in [0, 0.10]

	// Reasoning is the audit trail: one entry per rule, in evaluation order
	Reasoning []string `json:"reasoning"`
}
