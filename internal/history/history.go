// Package history records terminal submission outcomes per wallet address so
// the portfolio screen can show past operations after the live notification
// is gone.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how an operation ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	// OutcomeUnknown is a confirmation timeout: the transaction may still
	// settle, the service just stopped waiting.
	OutcomeUnknown Outcome = "unknown"
)

// Record is one terminal submission outcome.
type Record struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Operation     string    `json:"operation"`
	AssetSymbol   string    `json:"asset_symbol"`
	Amount        string    `json:"amount"`
	Outcome       Outcome   `json:"outcome"`
	TxHash        string    `json:"tx_hash,omitempty"`
	ErrorKind     string    `json:"error_kind,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Recorder persists and lists submission records.
type Recorder interface {
	Record(ctx context.Context, rec *Record) error
	ListByWallet(ctx context.Context, walletAddress string, limit int) ([]Record, error)
}
