package reasoning

import (
	"math"
	"testing"
)

func TestBetSizeBounds(t *testing.T) {
	margins := []float64{-10, 0, 0.5, 3, 6.2, 8, 15, 50, 100, 500}
	confidences := []float64{0, 10, 50, 60, 70, 85, 95, 100}
	risks := []float64{-20, 0, 10, 45, 70, 100, 150, 300}

	for _, margin := range margins {
		for _, confidence := range confidences {
			for _, risk := range risks {
				got := BetSize(margin, confidence, risk)
				if got < 0 || got > maxBetFraction {
					t.Errorf("BetSize(%f, %f, %f) = %f, out of [0, %f]",
						margin, confidence, risk, got, maxBetFraction)
				}
			}
		}
	}
}

func TestBetSizeDegenerateInputs(t *testing.T) {
	tests := []struct {
		name       string
		margin     float64
		confidence float64
		risk       float64
	}{
		{"zero margin", 0, 85, 10},
		{"negative margin", -5, 85, 10},
		{"zero confidence", 6.2, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BetSize(tt.margin, tt.confidence, tt.risk); got != 0 {
				t.Errorf("BetSize(%f, %f, %f) = %f, want 0", tt.margin, tt.confidence, tt.risk, got)
			}
		})
	}
}

func TestBetSizeNegativeKellyClampsToZero(t *testing.T) {
	// 6.2% edge at 85% confidence: (0.062*0.85 - 0.15) / 0.062 < 0
	if got := BetSize(6.2, 85, 45); got != 0 {
		t.Errorf("BetSize(6.2, 85, 45) = %f, want 0", got)
	}
}

func TestBetSizeCappedAtTenPercent(t *testing.T) {
	// 50% edge at 80% confidence gives a raw Kelly fraction of 0.4
	if got := BetSize(50, 80, 0); got != maxBetFraction {
		t.Errorf("BetSize(50, 80, 0) = %f, want %f", got, maxBetFraction)
	}
}

func TestBetSizeRiskAdjustmentFloor(t *testing.T) {
	// Raw Kelly 0.4; risk 300 floors the multiplier at 0.1 instead of
	// zeroing the bet
	want := 0.4 * 0.1
	if got := BetSize(50, 80, 300); math.Abs(got-want) > 1e-9 {
		t.Errorf("BetSize(50, 80, 300) = %f, want %f", got, want)
	}
}

func TestBetSizeRiskMonotonic(t *testing.T) {
	// Higher risk never increases the bet
	prev := math.Inf(1)
	for _, risk := range []float64{0, 20, 40, 60, 80, 100} {
		got := BetSize(50, 80, risk)
		if got > prev {
			t.Errorf("BetSize at risk %f = %f, larger than at lower risk (%f)", risk, got, prev)
		}
		prev = got
	}
}
