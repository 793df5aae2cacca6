package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// FlushResult contains the records written by a flush
type FlushResult struct {
	Records []domain.LogRecord
	Message string
}

// FlushCommand drains the tracker's pending deltas into the activity log
type FlushCommand struct {
	tracker *domain.Tracker
	log     ports.ActivityLog
	logger  *slog.Logger
}

// NewFlushCommand creates a new FlushCommand
func NewFlushCommand(tracker *domain.Tracker, log ports.ActivityLog, logger *slog.Logger) *FlushCommand {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlushCommand{
		tracker: tracker,
		log:     log,
		logger:  logger,
	}
}

// Execute writes every pending delta as a record stamped with now.
// The accumulator is cleared before the write, so a failed write drops the batch.
func (c *FlushCommand) Execute(ctx context.Context, now time.Time) (*FlushResult, error) {
	batch := domain.NewBatch(c.tracker.Drain(), now)
	if len(batch) == 0 {
		return &FlushResult{Message: "Nothing to log."}, nil
	}

	if err := c.log.Append(batch); err != nil {
		c.logger.ErrorContext(ctx, "dropping unflushed changes",
			"records", len(batch),
			"log", c.log.Path(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to log %d records: %w", len(batch), err)
	}

	c.logger.InfoContext(ctx, "logged changes", "records", len(batch), "log", c.log.Path())
	for _, r := range batch {
		c.logger.DebugContext(ctx, "logged record", "file", r.FileName, "chars_added", r.CharsAdded)
	}

	return &FlushResult{
		Records: batch,
		Message: fmt.Sprintf("Logged changes for %d file(s).", len(batch)),
	}, nil
}
