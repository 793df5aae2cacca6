package sqlite

import (
	"fmt"
	"time"

	"prodtrack/internal/domain"
)

// Sync replaces the indexed records with records, in log order
func (idx *Index) Sync(records []domain.LogRecord, stamp domain.LogStamp) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	tx, err := idx.beginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin sync: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Reset(); err != nil {
		return nil, fmt.Errorf("failed to clear index: %w", err)
	}

	for i, r := range records {
		slotted, err := tx.InsertRecord(i, r)
		if err != nil {
			return nil, fmt.Errorf("failed to index record %d: %w", i, err)
		}
		stats.Records++
		if !slotted {
			stats.Skipped++
		}
	}

	if err := tx.UpdateMeta(hashLogPath(idx.logPath), stamp); err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync: %w", err)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
