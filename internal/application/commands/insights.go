package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"prodtrack/internal/application"
	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// InsightsResult contains the result of running the insight pipeline
type InsightsResult struct {
	Records  int
	PlotPath string
	Opened   bool
	OpenErr  error
	Message  string
}

// InsightsCommand trains a model on the log and renders the insight plot
type InsightsCommand struct {
	log      ports.ActivityLog
	pipeline ports.InsightPipeline
	opener   ports.DocumentOpener
	logger   *slog.Logger

	ModelPath string
	PlotPath  string

	fileExists func(path string) bool
}

// NewInsightsCommand creates a new InsightsCommand. opener may be nil.
func NewInsightsCommand(
	log ports.ActivityLog,
	pipeline ports.InsightPipeline,
	opener ports.DocumentOpener,
	modelPath, plotPath string,
	logger *slog.Logger,
) *InsightsCommand {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightsCommand{
		log:        log,
		pipeline:   pipeline,
		opener:     opener,
		logger:     logger,
		ModelPath:  modelPath,
		PlotPath:   plotPath,
		fileExists: fileExists,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks the preconditions in order and returns the number of records
// in the log. Each failing precondition has its own sentinel error.
func (c *InsightsCommand) Validate() (int, error) {
	exists, err := c.log.Exists()
	if err != nil {
		return 0, fmt.Errorf("failed to check log: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: %s", application.ErrLogMissing, c.log.Path())
	}

	raw, err := c.log.ReadRaw()
	if err != nil {
		return 0, fmt.Errorf("failed to read log: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return 0, fmt.Errorf("%w: %s", application.ErrLogEmpty, c.log.Path())
	}

	records, err := domain.ParseLog(raw)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, application.ErrNoRecords
	}

	script := c.pipeline.TrainScript()
	if script == "" || !c.fileExists(script) {
		return 0, fmt.Errorf("%w: %s", application.ErrScriptMissing, script)
	}

	return len(records), nil
}

// Execute validates the preconditions, then runs training and plotting in
// sequence. Nothing runs if a precondition fails; plotting never runs if
// training fails.
func (c *InsightsCommand) Execute(ctx context.Context) (*InsightsResult, error) {
	count, err := c.Validate()
	if err != nil {
		return nil, err
	}

	logPath := c.log.Path()
	c.logger.InfoContext(ctx, "training model", "records", count, "model", c.ModelPath)

	out, err := c.pipeline.Train(ctx, logPath, c.ModelPath)
	if err != nil {
		c.logger.ErrorContext(ctx, "training failed", "error", err, "output", out)
		return nil, &application.PipelineError{Stage: application.StageTrain, Output: out, Err: err}
	}
	c.logger.DebugContext(ctx, "training output", "output", out)

	out, err = c.pipeline.Plot(ctx, c.ModelPath, logPath, c.PlotPath)
	if err != nil {
		c.logger.ErrorContext(ctx, "insight generation failed", "error", err, "output", out)
		return nil, &application.PipelineError{Stage: application.StagePlot, Output: out, Err: err}
	}
	c.logger.DebugContext(ctx, "insight output", "output", out)

	result := &InsightsResult{
		Records:  count,
		PlotPath: c.PlotPath,
		Message:  fmt.Sprintf("Insights generated! Plot saved at: %s", c.PlotPath),
	}

	if c.opener != nil {
		if err := c.opener.OpenFile(c.PlotPath); err != nil {
			c.logger.WarnContext(ctx, "could not open plot", "plot", c.PlotPath, "error", err)
			result.OpenErr = err
		} else {
			result.Opened = true
		}
	}

	return result, nil
}

// IsPrecondition reports whether err is one of the insight preconditions
// rather than a failure of the pipeline itself.
func IsPrecondition(err error) bool {
	var valErr *application.ValidationError
	return errors.Is(err, application.ErrLogMissing) ||
		errors.Is(err, application.ErrLogEmpty) ||
		errors.Is(err, application.ErrNoRecords) ||
		errors.Is(err, application.ErrMalformedLog) ||
		errors.Is(err, application.ErrScriptMissing) ||
		errors.As(err, &valErr)
}
