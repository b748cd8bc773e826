package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amir656/polytrage/pkg/models"
	"github.com/lib/pq"
)

// GetUserPolicy retrieves the policy for a user address. Returns nil when
// no policy exists.
func (s *Store) GetUserPolicy(ctx context.Context, userAddress string) (*models.UserPolicy, error) {
	query := `
		SELECT user_address, bankroll, max_bet_size, min_bet_size,
		       min_profit_margin, min_confidence, max_risk_score,
		       approved_markets, is_active
		FROM user_policies
		WHERE user_address = $1
	`

	var policy models.UserPolicy
	err := s.db.QueryRowContext(ctx, query, userAddress).Scan(
		&policy.UserAddress,
		&policy.Bankroll,
		&policy.MaxBetSize,
		&policy.MinBetSize,
		&policy.MinProfitMargin,
		&policy.MinConfidence,
		&policy.MaxRiskScore,
		pq.Array(&policy.ApprovedMarkets),
		&policy.IsActive,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user policy: %w", err)
	}

	return &policy, nil
}

// UpsertUserPolicy creates or replaces a user policy
func (s *Store) UpsertUserPolicy(ctx context.Context, policy models.UserPolicy) error {
	query := `
		INSERT INTO user_policies (
			user_address, bankroll, max_bet_size, min_bet_size,
			min_profit_margin, min_confidence, max_risk_score,
			approved_markets, is_active, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_address) DO UPDATE SET
			bankroll = EXCLUDED.bankroll,
			max_bet_size = EXCLUDED.max_bet_size,
			min_bet_size = EXCLUDED.min_bet_size,
			min_profit_margin = EXCLUDED.min_profit_margin,
			min_confidence = EXCLUDED.min_confidence,
			max_risk_score = EXCLUDED.max_risk_score,
			approved_markets = EXCLUDED.approved_markets,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query,
		policy.UserAddress,
		policy.Bankroll,
		policy.MaxBetSize,
		policy.MinBetSize,
		policy.MinProfitMargin,
		policy.MinConfidence,
		policy.MaxRiskScore,
		pq.Array(policy.ApprovedMarkets),
		policy.IsActive,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert user policy: %w", err)
	}

	return nil
}

// EnsureDefaultPolicy inserts the demo policy if the user has none yet
func (s *Store) EnsureDefaultPolicy(ctx context.Context) (models.UserPolicy, error) {
	def := models.DefaultUserPolicy()

	existing, err := s.GetUserPolicy(ctx, def.UserAddress)
	if err != nil {
		return models.UserPolicy{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	if err := s.UpsertUserPolicy(ctx, def); err != nil {
		return models.UserPolicy{}, err
	}

	return def, nil
}
