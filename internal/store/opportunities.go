package store

import (
	"context"
	"fmt"

	"github.com/amir656/polytrage/pkg/models"
)

// WriteOpportunity inserts a detected opportunity and returns its ID
func (s *Store) WriteOpportunity(ctx context.Context, opp models.Opportunity) (int64, error) {
	query := `
		INSERT INTO opportunities (
			market, market_odds, oracle_price, implied_price,
			profit_margin, confidence, detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		query,
		opp.Market,
		opp.MarketOdds,
		opp.OraclePrice,
		opp.ImpliedPrice,
		opp.ProfitMargin,
		opp.Confidence,
		opp.DetectedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to insert opportunity: %w", err)
	}

	return id, nil
}

// ListOpportunities returns the most recent opportunities, newest first
func (s *Store) ListOpportunities(ctx context.Context, limit int) ([]models.Opportunity, error) {
	query := `
		SELECT id, market, market_odds, oracle_price, implied_price,
		       profit_margin, confidence, detected_at
		FROM opportunities
		ORDER BY detected_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []models.Opportunity
	for rows.Next() {
		var opp models.Opportunity
		err := rows.Scan(
			&opp.ID,
			&opp.Market,
			&opp.MarketOdds,
			&opp.OraclePrice,
			&opp.ImpliedPrice,
			&opp.ProfitMargin,
			&opp.Confidence,
			&opp.DetectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity: %w", err)
		}
		opportunities = append(opportunities, opp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opportunities: %w", err)
	}

	return opportunities, nil
}
