package pyscript

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"prodtrack/internal/ports"
)

// Runner implements ports.InsightPipeline by running the training and insight
// scripts with an external interpreter
type Runner struct {
	runtime       string
	trainScript   string
	insightScript string
}

// Ensure Runner implements InsightPipeline
var _ ports.InsightPipeline = (*Runner)(nil)

// Option configures the Runner
type Option func(*Runner)

// WithRuntime sets the interpreter used to run the scripts
func WithRuntime(runtime string) Option {
	return func(r *Runner) {
		r.runtime = runtime
	}
}

// NewRunner creates a new script runner
func NewRunner(trainScript, insightScript string, opts ...Option) *Runner {
	r := &Runner{
		runtime:       "python3",
		trainScript:   trainScript,
		insightScript: insightScript,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TrainScript returns the path of the training script
func (r *Runner) TrainScript() string {
	return r.trainScript
}

// Train runs `<runtime> <train script> --log <logPath> --model <modelPath>`
func (r *Runner) Train(ctx context.Context, logPath, modelPath string) (string, error) {
	return r.run(ctx, r.trainScript, "--log", logPath, "--model", modelPath)
}

// Plot runs `<runtime> <insight script> --model <modelPath> --log <logPath> --output <outputPath>`
func (r *Runner) Plot(ctx context.Context, modelPath, logPath, outputPath string) (string, error) {
	return r.run(ctx, r.insightScript, "--model", modelPath, "--log", logPath, "--output", outputPath)
}

// IsAvailable checks if the runtime is installed and accessible
func (r *Runner) IsAvailable() bool {
	_, err := exec.LookPath(r.runtime)
	return err == nil
}

func (r *Runner) run(ctx context.Context, script string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.runtime, append([]string{script}, args...)...)
	output, err := cmd.Output()
	stdout := strings.TrimSpace(string(output))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr == "" {
				stderr = stdout
			}
			return stdout, fmt.Errorf("%s exited with code %d: %s", script, exitErr.ExitCode(), stderr)
		}
		return stdout, fmt.Errorf("failed to run %s: %w", script, err)
	}
	return stdout, nil
}
