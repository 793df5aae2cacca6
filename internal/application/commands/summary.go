package commands

import (
	"context"
	"fmt"

	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// NoDataMessage is reported when there is no log to summarize
const NoDataMessage = "No log data found."

// SummaryResult contains the result of summarizing the log
type SummaryResult struct {
	Summary domain.Summary
	NoData  bool
	Message string
}

// SummaryCommand reads the whole log and aggregates it
type SummaryCommand struct {
	log ports.ActivityLog
}

// NewSummaryCommand creates a new SummaryCommand
func NewSummaryCommand(log ports.ActivityLog) *SummaryCommand {
	return &SummaryCommand{log: log}
}

// Execute runs the summary command. A missing log is not an error.
func (c *SummaryCommand) Execute(ctx context.Context) (*SummaryResult, error) {
	exists, err := c.log.Exists()
	if err != nil {
		return nil, fmt.Errorf("failed to check log: %w", err)
	}
	if !exists {
		return &SummaryResult{NoData: true, Message: NoDataMessage}, nil
	}

	records, err := c.log.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	summary := domain.Summarize(records)
	return &SummaryResult{
		Summary: summary,
		Message: summary.Message(),
	}, nil
}
