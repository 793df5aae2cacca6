package ports

import "prodtrack/internal/domain"

// ActivityIndex provides cached aggregate queries over the activity log
type ActivityIndex interface {
	// Lifecycle
	Open(logPath string) error
	Close() error

	// Sync operations
	NeedsSync(stamp domain.LogStamp) bool
	Sync(records []domain.LogRecord, stamp domain.LogStamp) (*domain.SyncStats, error)

	// Queries
	FileTotals(limit int) ([]domain.FileTotal, error)
	HourTotals() ([]domain.HourTotal, error)
}
