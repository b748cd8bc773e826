package policy

import (
	"fmt"
	"strings"

	"github.com/amir656/polytrage/pkg/models"
)

// Check validates a recommendation against a user policy. Returns false
// with a human-readable reason on the first check that fails; checks run
// in a fixed order so rejection reasons are deterministic.
func Check(rec models.TradeRecommendation, policy models.UserPolicy) (bool, string) {
	if !policy.IsActive {
		return false, "user policy is inactive"
	}

	if rec.ProfitMargin < policy.MinProfitMargin {
		return false, fmt.Sprintf("profit margin %.2f%% below policy minimum %.2f%%", rec.ProfitMargin, policy.MinProfitMargin)
	}

	if rec.Confidence < policy.MinConfidence {
		return false, fmt.Sprintf("confidence %.1f%% below policy minimum %.1f%%", rec.Confidence, policy.MinConfidence)
	}

	if rec.RiskScore > policy.MaxRiskScore {
		return false, fmt.Sprintf("risk score %.1f above policy maximum %.1f", rec.RiskScore, policy.MaxRiskScore)
	}

	if !marketApproved(rec.Market, policy.ApprovedMarkets) {
		return false, fmt.Sprintf("market %q not in approved list", rec.Market)
	}

	return true, ""
}

// marketApproved checks the market text against the approved substring
// list. An empty list approves everything.
func marketApproved(market string, approved []string) bool {
	if len(approved) == 0 {
		return true
	}
	for _, substr := range approved {
		if strings.Contains(market, substr) {
			return true
		}
	}
	return false
}

// Size converts a bankroll fraction into a dollar stake, capped by the
// policy's per-trade maximum. Returns an error when the result falls below
// the policy minimum; undersized trades are rejected, never shrunk further
// and executed.
func Size(fraction float64, policy models.UserPolicy) (float64, error) {
	amount := fraction * policy.Bankroll
	if amount > policy.MaxBetSize {
		amount = policy.MaxBetSize
	}

	if amount < policy.MinBetSize {
		return 0, fmt.Errorf("bet size $%.2f below minimum threshold $%.2f", amount, policy.MinBetSize)
	}

	return amount, nil
}
