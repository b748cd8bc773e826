package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/amir656/polytrage/pkg/models"
)

// WriteTrade inserts a trade execution record and returns its ID
func (s *Store) WriteTrade(ctx context.Context, trade models.TradeExecution) (int64, error) {
	query := `
		INSERT INTO trades (
			trade_id, market, bet_size, expected_profit,
			tx_hash, status, error_message, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var errMsg sql.NullString
	if trade.ErrorMessage != "" {
		errMsg = sql.NullString{String: trade.ErrorMessage, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		query,
		trade.TradeID,
		trade.Market,
		trade.BetSize,
		trade.ExpectedProfit,
		trade.TxHash,
		string(trade.Status),
		errMsg,
		trade.Timestamp,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to insert trade: %w", err)
	}

	return id, nil
}

// ListTrades returns the most recent trade executions, newest first
func (s *Store) ListTrades(ctx context.Context, limit int) ([]models.TradeExecution, error) {
	query := `
		SELECT id, trade_id, market, bet_size, expected_profit,
		       tx_hash, status, error_message, executed_at
		FROM trades
		ORDER BY executed_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// ListExecutedSince returns executed trades newer than the cutoff. The
// settlement monitor uses this to track trades awaiting on-chain settlement.
func (s *Store) ListExecutedSince(ctx context.Context, cutoff time.Time) ([]models.TradeExecution, error) {
	query := `
		SELECT id, trade_id, market, bet_size, expected_profit,
		       tx_hash, status, error_message, executed_at
		FROM trades
		WHERE status = 'executed' AND executed_at > $1
		ORDER BY executed_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query executed trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]models.TradeExecution, error) {
	var trades []models.TradeExecution
	for rows.Next() {
		var trade models.TradeExecution
		var txHash sql.NullString
		var errMsg sql.NullString
		var status string

		err := rows.Scan(
			&trade.ID,
			&trade.TradeID,
			&trade.Market,
			&trade.BetSize,
			&trade.ExpectedProfit,
			&txHash,
			&status,
			&errMsg,
			&trade.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		trade.Status = models.TradeStatus(status)
		if txHash.Valid {
			trade.TxHash = &txHash.String
		}
		if errMsg.Valid {
			trade.ErrorMessage = errMsg.String
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}
