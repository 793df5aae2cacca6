package commands

import (
	"context"
	"fmt"
	"log/slog"

	"prodtrack/internal/application"
	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// DefaultFileLimit is the number of files listed when no limit is given
const DefaultFileLimit = 10

// syncIndex brings the index up to date with the log file if it changed
func syncIndex(ctx context.Context, log ports.ActivityLog, index ports.ActivityIndex, logger *slog.Logger) error {
	exists, err := log.Exists()
	if err != nil {
		return fmt.Errorf("failed to check log: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", application.ErrLogMissing, log.Path())
	}

	stamp, err := log.Stamp()
	if err != nil {
		return fmt.Errorf("failed to stat log: %w", err)
	}
	if !index.NeedsSync(stamp) {
		return nil
	}

	records, err := log.Load()
	if err != nil {
		return fmt.Errorf("failed to read log: %w", err)
	}

	stats, err := index.Sync(records, stamp)
	if err != nil {
		return fmt.Errorf("failed to sync index: %w", err)
	}
	if logger != nil {
		logger.DebugContext(ctx, "index synced",
			"records", stats.Records,
			"skipped", stats.Skipped,
			"duration", stats.Duration,
		)
	}
	return nil
}

// FileBreakdownCommand lists the files with the most growth
type FileBreakdownCommand struct {
	log    ports.ActivityLog
	index  ports.ActivityIndex
	logger *slog.Logger
	Limit  int
}

// NewFileBreakdownCommand creates a new FileBreakdownCommand
func NewFileBreakdownCommand(log ports.ActivityLog, index ports.ActivityIndex, limit int, logger *slog.Logger) *FileBreakdownCommand {
	if limit <= 0 {
		limit = DefaultFileLimit
	}
	return &FileBreakdownCommand{
		log:    log,
		index:  index,
		logger: logger,
		Limit:  limit,
	}
}

// Execute runs the file breakdown command
func (c *FileBreakdownCommand) Execute(ctx context.Context) ([]domain.FileTotal, error) {
	if err := syncIndex(ctx, c.log, c.index, c.logger); err != nil {
		return nil, err
	}
	return c.index.FileTotals(c.Limit)
}

// HourlyBreakdownCommand aggregates growth per weekday and hour
type HourlyBreakdownCommand struct {
	log    ports.ActivityLog
	index  ports.ActivityIndex
	logger *slog.Logger
}

// NewHourlyBreakdownCommand creates a new HourlyBreakdownCommand
func NewHourlyBreakdownCommand(log ports.ActivityLog, index ports.ActivityIndex, logger *slog.Logger) *HourlyBreakdownCommand {
	return &HourlyBreakdownCommand{
		log:    log,
		index:  index,
		logger: logger,
	}
}

// Execute runs the hourly breakdown command
func (c *HourlyBreakdownCommand) Execute(ctx context.Context) ([]domain.HourTotal, error) {
	if err := syncIndex(ctx, c.log, c.index, c.logger); err != nil {
		return nil, err
	}
	return c.index.HourTotals()
}
