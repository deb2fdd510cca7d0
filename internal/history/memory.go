package history

import (
	"context"
	"sync"
)

// MemoryRecorder is an in-process Recorder used in fixture mode and tests.
// Newest records first, like the Postgres implementation.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) Record(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *MemoryRecorder) ListByWallet(ctx context.Context, walletAddress string, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Record, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(result) < limit; i-- {
		if m.records[i].WalletAddress == walletAddress {
			result = append(result, m.records[i])
		}
	}
	return result, nil
}
