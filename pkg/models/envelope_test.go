package models

import (
	"strings"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	rec := TradeRecommendation{
		Market:       "Will Bitcoin reach $100,000 by December 31, 2024?",
		Action:       RecommendationExecute,
		BetSize:      0.05,
		ProfitMargin: 6.2,
		Confidence:   85.0,
		RiskScore:    10.0,
		Reasoning:    []string{"Moderate profit margin (6.2%)"},
	}

	env, err := NewEnvelope(EnvelopeTradeRecommendation, "analyzer", rec)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	if env.Type != EnvelopeTradeRecommendation {
		t.Errorf("type = %s, want %s", env.Type, EnvelopeTradeRecommendation)
	}
	if env.From != "analyzer" {
		t.Errorf("from = %s, want analyzer", env.From)
	}

	decoded, err := env.RecommendationPayload()
	if err != nil {
		t.Fatalf("RecommendationPayload: %v", err)
	}

	if decoded.Market != rec.Market {
		t.Errorf("market = %q, want %q", decoded.Market, rec.Market)
	}
	if decoded.Action != RecommendationExecute {
		t.Errorf("action = %s, want EXECUTE", decoded.Action)
	}
	if decoded.BetSize != rec.BetSize {
		t.Errorf("bet size = %f, want %f", decoded.BetSize, rec.BetSize)
	}
	if len(decoded.Reasoning) != 1 || decoded.Reasoning[0] != rec.Reasoning[0] {
		t.Errorf("reasoning = %v, want %v", decoded.Reasoning, rec.Reasoning)
	}
}

func TestEnvelopeTypeMismatch(t *testing.T) {
	env, err := NewEnvelope(EnvelopeOpportunitiesDetected, "scanner", OpportunitiesDetected{})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	if _, err := env.RecommendationPayload(); err == nil {
		t.Error("expected type mismatch error decoding opportunities as recommendation")
	} else if !strings.Contains(err.Error(), string(EnvelopeOpportunitiesDetected)) {
		t.Errorf("error = %q, want mention of actual type", err)
	}

	if _, err := env.ExecutedPayload(); err == nil {
		t.Error("expected type mismatch error decoding opportunities as executed trade")
	}

	if _, err := env.OpportunitiesPayload(); err != nil {
		t.Errorf("matching accessor failed: %v", err)
	}
}
