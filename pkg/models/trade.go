package models

import "time"

// TradeStatus is the lifecycle state of a trade execution
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "pending"
	TradeStatusExecuted TradeStatus = "executed"
	TradeStatusFailed   TradeStatus = "failed"
)

// TradeExecution is the result of attempting to realize a sized,
// policy-approved recommendation. Immutable once returned by the
// execution layer; a failed execution is terminal and never retried.
type TradeExecution struct {
	TradeID        string      `json:"trade_id"`
	Market         string      `json:"market"`
	BetSize        float64     `json:"bet_size"`        // Actual USD stake (0 for failed trades)
	ExpectedProfit float64     `json:"expected_profit"` // USD
	TxHash         *string     `json:"tx_hash,omitempty"`
	Status         TradeStatus `json:"status"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`

	// Database ID (populated after write)
	ID int64 `json:"id,omitempty"`
}

// SizedTrade is the instruction handed to the execution layer after the
// policy filter and dollar sizing have both passed.
type SizedTrade struct {
	Market       string   `json:"market"`
	Amount       float64  `json:"amount"` // USD stake
	ProfitMargin float64  `json:"profit_margin"`
	Confidence   float64  `json:"confidence"`
	RiskScore    float64  `json:"risk_score"`
	Reasoning    []string `json:"reasoning"`
}
