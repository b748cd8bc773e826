package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EnvelopeType discriminates messages crossing agent boundaries
type EnvelopeType string

const (
	EnvelopeOpportunitiesDetected EnvelopeType = "opportunities_detected"
	EnvelopeTradeRecommendation   EnvelopeType = "trade_recommendation"
	EnvelopeTradeExecuted         EnvelopeType = "trade_executed"
)

// Envelope is the typed message published to the streams. Consumers switch
// on Type and decode the payload with the matching accessor.
type Envelope struct {
	Type      EnvelopeType    `json:"type"`
	From      string          `json:"from"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// OpportunitiesDetected is the payload for opportunities_detected envelopes
type OpportunitiesDetected struct {
	Opportunities []Opportunity `json:"opportunities"`
}

// TradeRecommendation is the payload for trade_recommendation envelopes
type TradeRecommendation struct {
	Market        string         `json:"market"`
	Action        Recommendation `json:"action"`
	BetSize       float64        `json:"bet_size"` // Fraction of bankroll
	ProfitMargin  float64        `json:"profit_margin"`
	Confidence    float64        `json:"confidence"`
	RiskScore     float64        `json:"risk_score"`
	Reasoning     []string       `json:"reasoning"`
	OpportunityID int64          `json:"opportunity_id,omitempty"`
}

// TradeExecuted is the payload for trade_executed envelopes
type TradeExecuted struct {
	Trade TradeExecution `json:"trade"`
}

// NewEnvelope wraps a payload in a typed envelope
func NewEnvelope(envType EnvelopeType, from string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", envType, err)
	}

	return Envelope{
		Type:      envType,
		From:      from,
		Timestamp: time.Now(),
		Payload:   raw,
	}, nil
}

// OpportunitiesPayload decodes an opportunities_detected payload
func (e Envelope) OpportunitiesPayload() (OpportunitiesDetected, error) {
	if e.Type != EnvelopeOpportunitiesDetected {
		return OpportunitiesDetected{}, fmt.Errorf("envelope type is %s, not %s", e.Type, EnvelopeOpportunitiesDetected)
	}

	var payload OpportunitiesDetected
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return OpportunitiesDetected{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	return payload, nil
}

// RecommendationPayload decodes a trade_recommendation payload
func (e Envelope) RecommendationPayload() (TradeRecommendation, error) {
	if e.Type != EnvelopeTradeRecommendation {
		return TradeRecommendation{}, fmt.Errorf("envelope type is %s, not %s", e.Type, EnvelopeTradeRecommendation)
	}

	var payload TradeRecommendation
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return TradeRecommendation{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	return payload, nil
}

// ExecutedPayload decodes a trade_executed payload
func (e Envelope) ExecutedPayload() (TradeExecuted, error) {
	if e.Type != EnvelopeTradeExecuted {
		return TradeExecuted{}, fmt.Errorf("envelope type is %s, not %s", e.Type, EnvelopeTradeExecuted)
	}

	var payload TradeExecuted
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return TradeExecuted{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	return payload, nil
}
