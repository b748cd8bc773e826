package detector

import (
	"math"
	"testing"
	"time"

	"github.com/amir656/polytrage/pkg/models"
)

func TestDetectImpliedPrice(t *testing.T) {
	d := New()

	market := models.Market{
		ID:          "btc-100k-dec31",
		Question:    "Will Bitcoin reach $100,000 by December 31, 2024?",
		Odds:        75.0,
		Volume:      1250000,
		TargetPrice: 100000,
		Asset:       "BTC",
	}

	prices := map[string]models.OraclePrice{
		"BTC": {
			Symbol:      "BTC",
			Price:       98500,
			Confidence:  50,
			PublishTime: time.Now(),
		},
	}

	opp := d.Detect(market, prices)
	if opp == nil {
		t.Fatal("expected opportunity, got nil")
	}

	// implied = 100000 * (1 - 0.75*0.9) = 32500
	if math.Abs(opp.ImpliedPrice-32500) > 0.001 {
		t.Errorf("implied price = %f, want 32500", opp.ImpliedPrice)
	}

	// margin = (98500 - 32500) / 32500 * 100
	wantMargin := (98500.0 - 32500.0) / 32500.0 * 100
	if math.Abs(opp.ProfitMargin-wantMargin) > 0.0001 {
		t.Errorf("profit margin = %f, want %f", opp.ProfitMargin, wantMargin)
	}

	if opp.Market != market.Question {
		t.Errorf("market = %q, want %q", opp.Market, market.Question)
	}
	if opp.OraclePrice != 98500 {
		t.Errorf("oracle price = %f, want 98500", opp.OraclePrice)
	}
	if opp.MarketOdds != 75.0 {
		t.Errorf("market odds = %f, want 75", opp.MarketOdds)
	}
}

func TestDetectMissingOraclePrice(t *testing.T) {
	d := New()

	market := models.Market{
		ID:     "sol-500-dec31",
		Asset:  "SOL",
		Odds:   50,
		Volume: 100000,
	}

	prices := map[string]models.OraclePrice{
		"BTC": {Symbol: "BTC", Price: 98500},
	}

	if opp := d.Detect(market, prices); opp != nil {
		t.Errorf("expected nil for missing oracle price, got %+v", opp)
	}
}

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name         string
		volume       float64
		price        float64
		conf         float64
		profitMargin float64
		want         float64
	}{
		{
			name:         "high volume tight oracle big margin clamps at 100",
			volume:       1250000,
			price:        98500,
			conf:         50, // ratio ~0.0005
			profitMargin: 203.0,
			want:         100, // 50+20+30+15 = 115 clamped
		},
		{
			name:         "mid volume moderate margin",
			volume:       850000,
			price:        3200,
			conf:         10, // ratio ~0.003
			profitMargin: 4.0,
			want:         80, // 50+10+10+10
		},
		{
			name:         "wide oracle interval penalized",
			volume:       50000,
			price:        100,
			conf:         10, // ratio 0.1
			profitMargin: 1.0,
			want:         40, // 50-10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market := models.Market{Volume: tt.volume}
			priceData := models.OraclePrice{Price: tt.price, Confidence: tt.conf}

			got := scoreConfidence(market, priceData, tt.profitMargin)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("scoreConfidence() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScoreConfidenceBounds(t *testing.T) {
	for _, margin := range []float64{-50, 0, 3, 5, 10, 50, 500} {
		for _, volume := range []float64{0, 100001, 1000001} {
			market := models.Market{Volume: volume}
			priceData := models.OraclePrice{Price: 100, Confidence: 0.001}

			got := scoreConfidence(market, priceData, margin)
			if got < 0 || got > 100 {
				t.Errorf("scoreConfidence(margin=%f, volume=%f) = %f, out of [0,100]", margin, volume, got)
			}
		}
	}
}
