package ports

import "context"

// InsightPipeline defines the external model-training and plotting steps.
// Both calls block until the external process exits.
type InsightPipeline interface {
	// TrainScript returns the path of the training script
	TrainScript() string

	// Train fits a model from the log and writes it to modelPath
	Train(ctx context.Context, logPath, modelPath string) (string, error)

	// Plot renders insights from the model and log into outputPath
	Plot(ctx context.Context, modelPath, logPath, outputPath string) (string, error)
}
