package application

import (
	"errors"
	"fmt"

	"prodtrack/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNoWorkspace    = domain.ErrNoWorkspace
	ErrMalformedLog   = domain.ErrMalformedLog
	ErrLogMissing     = errors.New("productivity log not found")
	ErrLogEmpty       = errors.New("productivity log is empty")
	ErrNoRecords      = errors.New("no data in productivity log")
	ErrScriptMissing  = errors.New("training script not found")
	ErrPipelineFailed = errors.New("insight pipeline failed")
)

// Pipeline stages
const (
	StageTrain = "train"
	StagePlot  = "plot"
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PipelineError represents a failed external pipeline step
type PipelineError struct {
	Stage  string
	Output string
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func (e *PipelineError) Is(target error) bool {
	return target == ErrPipelineFailed
}

// UserMessage converts err into the notification shown to the user
func UserMessage(err error) string {
	var pipeErr *PipelineError
	var valErr *ValidationError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoWorkspace):
		return "Please open a folder to enable logging."
	case errors.Is(err, ErrMalformedLog):
		return "Error reading log file. Check the output log for more details."
	case errors.Is(err, ErrLogMissing):
		return "No productivity log found. Save some files to start collecting data."
	case errors.Is(err, ErrLogEmpty):
		return "The productivity log is empty."
	case errors.Is(err, ErrNoRecords):
		return "No data in log. Keep coding to collect some activity first."
	case errors.Is(err, ErrScriptMissing):
		return "Training script not found. Set train_script in .prodtrack.toml."
	case errors.As(err, &pipeErr):
		if pipeErr.Stage == StageTrain {
			return "Failed to train the productivity model. Check the output log for details."
		}
		return "Failed to generate insights. Check the output log for details."
	case errors.As(err, &valErr):
		return "Invalid configuration: " + valErr.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
