package reasoning

import (
	"math"
	"strings"
	"testing"

	"github.com/amir656/polytrage/pkg/models"
)

const btcMarket = "Will Bitcoin reach $100,000 by December 31, 2024?"

func TestEvaluateBTCScenario(t *testing.T) {
	engine := NewEngine(nil)

	analysis := engine.Evaluate(models.Opportunity{
		Market:       btcMarket,
		ProfitMargin: 6.2,
		Confidence:   85.0,
	})

	// margin 6.2 -> +0, confidence 85 (not >85) -> 0, BTC accuracy 0.72 -> -5,
	// volatility 0.8 -> +15
	if math.Abs(analysis.RiskScore-10) > 0.001 {
		t.Errorf("risk score = %f, want 10", analysis.RiskScore)
	}

	if analysis.Recommendation != models.RecommendationExecute {
		t.Errorf("recommendation = %s, want EXECUTE", analysis.Recommendation)
	}

	// Kelly is negative for a 6.2% edge at 85% confidence, clamped to 0
	if analysis.BetSize != 0 {
		t.Errorf("bet size = %f, want 0", analysis.BetSize)
	}

	wantReasoning := []string{
		"Moderate profit margin (6.2%)",
		"Strong historical accuracy for BTC predictions",
		"High crypto market volatility increases risk",
		"Recommendation: EXECUTE",
		"Bet size: 0.00% of bankroll",
	}

	if len(analysis.Reasoning) != len(wantReasoning) {
		t.Fatalf("reasoning = %v, want %v", analysis.Reasoning, wantReasoning)
	}
	for i, want := range wantReasoning {
		if analysis.Reasoning[i] != want {
			t.Errorf("reasoning[%d] = %q, want %q", i, analysis.Reasoning[i], want)
		}
	}
}

func TestEvaluateRules(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		name       string
		market     string
		margin     float64
		confidence float64
		wantRisk   float64
		wantRec    models.Recommendation
		wantReason string
	}{
		{
			name:       "too good to be true margin",
			market:     btcMarket,
			margin:     20.0,
			confidence: 75.0,
			wantRisk:   40, // +30 margin, -5 history, +15 volatility
			wantRec:    models.RecommendationExecute,
			wantReason: "may indicate pricing error",
		},
		{
			name:       "strong margin",
			market:     btcMarket,
			margin:     9.0,
			confidence: 75.0,
			wantRisk:   20, // +10 margin, -5 history, +15 volatility
			wantRec:    models.RecommendationExecute,
			wantReason: "Strong profit margin (9.0%) detected",
		},
		{
			name:       "low confidence penalized",
			market:     btcMarket,
			margin:     6.0,
			confidence: 50.0,
			wantRisk:   35, // +25 confidence, -5 history, +15 volatility
			wantRec:    models.RecommendationSkip,
			wantReason: "Low confidence (50.0%) in opportunity",
		},
		{
			name:       "very high confidence rewarded",
			market:     btcMarket,
			margin:     6.0,
			confidence: 90.0,
			wantRisk:   0, // -10 confidence, -5 history, +15 volatility
			wantRec:    models.RecommendationExecute,
			wantReason: "High confidence (90.0%) in opportunity",
		},
		{
			name:       "eth history is moderate",
			market:     "Will Ethereum reach $5,000 by December 31, 2024?",
			margin:     6.0,
			confidence: 75.0,
			wantRisk:   25, // +10 history, +15 volatility
			wantRec:    models.RecommendationExecute,
			wantReason: "Moderate historical accuracy for ETH predictions",
		},
		{
			name:       "unmatched market defaults to eth bucket",
			market:     "Will Solana reach $500 by December 31, 2024?",
			margin:     6.0,
			confidence: 75.0,
			wantRisk:   25,
			wantRec:    models.RecommendationExecute,
			wantReason: "Moderate historical accuracy for ETH predictions",
		},
		{
			name:       "thin margin monitors",
			market:     btcMarket,
			margin:     4.0,
			confidence: 75.0,
			wantRisk:   10,
			wantRec:    models.RecommendationMonitor,
			wantReason: "Recommendation: MONITOR",
		},
		{
			name:       "hopeless opportunity skips",
			market:     btcMarket,
			margin:     1.0,
			confidence: 40.0,
			wantRisk:   35,
			wantRec:    models.RecommendationSkip,
			wantReason: "Recommendation: SKIP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := engine.Evaluate(models.Opportunity{
				Market:       tt.market,
				ProfitMargin: tt.margin,
				Confidence:   tt.confidence,
			})

			if math.Abs(analysis.RiskScore-tt.wantRisk) > 0.001 {
				t.Errorf("risk score = %f, want %f", analysis.RiskScore, tt.wantRisk)
			}
			if analysis.Recommendation != tt.wantRec {
				t.Errorf("recommendation = %s, want %s", analysis.Recommendation, tt.wantRec)
			}

			found := false
			for _, reason := range analysis.Reasoning {
				if strings.Contains(reason, tt.wantReason) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("reasoning %v missing %q", analysis.Reasoning, tt.wantReason)
			}
		})
	}
}

func TestRecommendBoundaries(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		margin     float64
		confidence float64
		risk       float64
		want       models.Recommendation
	}{
		{5.1, 70.1, 69.9, models.RecommendationExecute},
		{5.0, 70.1, 69.9, models.RecommendationMonitor}, // margin not strictly above 5
		{5.1, 70.0, 69.9, models.RecommendationMonitor}, // confidence not strictly above 70
		{5.1, 70.1, 70.0, models.RecommendationMonitor}, // risk not strictly below 70
		{3.1, 60.1, 79.9, models.RecommendationMonitor},
		{3.0, 60.1, 79.9, models.RecommendationSkip},
		{3.1, 60.0, 79.9, models.RecommendationSkip},
		{3.1, 60.1, 80.0, models.RecommendationSkip},
	}

	for _, tt := range tests {
		got := engine.recommend(tt.margin, tt.confidence, tt.risk)
		if got != tt.want {
			t.Errorf("recommend(%f, %f, %f) = %s, want %s", tt.margin, tt.confidence, tt.risk, got, tt.want)
		}
	}
}

func TestReevaluateDecaysConfidence(t *testing.T) {
	engine := NewEngine(nil)

	original := engine.Evaluate(models.Opportunity{
		Market:       btcMarket,
		ProfitMargin: 4.0,
		Confidence:   72.0,
	})

	if original.Recommendation != models.RecommendationMonitor {
		t.Fatalf("setup: recommendation = %s, want MONITOR", original.Recommendation)
	}

	updated := engine.Reevaluate(original)

	want := 72.0 * decayFactor
	if math.Abs(updated.Confidence-want) > 0.0001 {
		t.Errorf("decayed confidence = %f, want %f", updated.Confidence, want)
	}

	// The original analysis is never mutated
	if original.Confidence != 72.0 {
		t.Errorf("original confidence mutated to %f", original.Confidence)
	}

	// Repeated decay eventually drops below the MONITOR confidence floor
	current := original
	for i := 0; i < 50 && current.Recommendation == models.RecommendationMonitor; i++ {
		current = engine.Reevaluate(current)
	}
	if current.Recommendation != models.RecommendationSkip {
		t.Errorf("decayed recommendation = %s, want SKIP", current.Recommendation)
	}
}
