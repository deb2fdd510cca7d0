package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stellarhub/defihub/internal/history"
)

// HistoryRepository implements history.Recorder on PostgreSQL
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a PostgreSQL submission history repository
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Record inserts one terminal submission outcome.
func (r *HistoryRepository) Record(ctx context.Context, rec *history.Record) error {
	query := `
		INSERT INTO submission_history
			(id, wallet_address, operation, asset_symbol, amount, outcome, tx_hash, error_kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.WalletAddress,
		rec.Operation,
		rec.AssetSymbol,
		rec.Amount,
		string(rec.Outcome),
		nullableString(rec.TxHash),
		nullableString(rec.ErrorKind),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// ListByWallet returns the wallet's submissions, newest first.
func (r *HistoryRepository) ListByWallet(ctx context.Context, walletAddress string, limit int) ([]history.Record, error) {
	query := `
		SELECT id, wallet_address, operation, asset_symbol, amount, outcome, tx_hash, error_kind, created_at
		FROM submission_history
		WHERE wallet_address = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, walletAddress, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	records := make([]history.Record, 0, limit)
	for rows.Next() {
		var rec history.Record
		var outcome string
		var txHash, errorKind sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.WalletAddress,
			&rec.Operation,
			&rec.AssetSymbol,
			&rec.Amount,
			&outcome,
			&txHash,
			&errorKind,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		rec.Outcome = history.Outcome(outcome)
		if txHash.Valid {
			rec.TxHash = txHash.String
		}
		if errorKind.Valid {
			rec.ErrorKind = errorKind.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return records, nil
}
