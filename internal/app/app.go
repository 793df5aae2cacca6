// Package app builds the adapters and commands one workspace needs, so every
// binary wires them the same way.
package app

import (
	"io"
	"log/slog"

	"prodtrack/internal/adapters/editor"
	"prodtrack/internal/adapters/filesystem"
	"prodtrack/internal/adapters/pyscript"
	"prodtrack/internal/adapters/sqlite"
	"prodtrack/internal/adapters/viewer"
	"prodtrack/internal/application/commands"
	"prodtrack/internal/application/session"
	"prodtrack/internal/config"
	"prodtrack/internal/ports"
)

// App holds the dependencies for one workspace
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Log      ports.ActivityLog
	Pipeline *pyscript.Runner
	Viewer   ports.DocumentOpener
	Editor   ports.DocumentOpener

	indexOpts []sqlite.Option
}

// Option configures the App
type Option func(*App)

// WithIndexOptions passes options to every index the App opens
func WithIndexOptions(opts ...sqlite.Option) Option {
	return func(a *App) {
		a.indexOpts = append(a.indexOpts, opts...)
	}
}

// WithViewer replaces the system viewer used for the plot
func WithViewer(opener ports.DocumentOpener) Option {
	return func(a *App) {
		a.Viewer = opener
	}
}

// Load reads the workspace configuration and builds the App. Logs go to w.
func Load(workspace string, w io.Writer, opts ...Option) (*App, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}
	return New(cfg, config.NewLogger(cfg.LogLevel, w), opts...), nil
}

// New builds the App from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *App {
	a := &App{
		Config: cfg,
		Logger: logger,
		Log:    filesystem.NewLogStore(cfg.LogPath()),
		Pipeline: pyscript.NewRunner(
			cfg.TrainScriptPath(),
			cfg.InsightScriptPath(),
			pyscript.WithRuntime(cfg.RuntimeCommand()),
		),
		Viewer: viewer.NewOpener(),
		Editor: editor.NewOpener(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewSession creates the tracking session for the workspace
func (a *App) NewSession(opts ...session.Option) (*session.Session, error) {
	opts = append([]session.Option{
		session.WithInterval(a.Config.Interval()),
		session.WithLogger(a.Logger),
	}, opts...)
	return session.New(a.Config.Workspace, a.Log, opts...)
}

// OpenIndex opens the breakdown index for the workspace log. The caller closes it.
func (a *App) OpenIndex() (*sqlite.Index, error) {
	idx := sqlite.NewIndex(a.indexOpts...)
	if err := idx.Open(a.Log.Path()); err != nil {
		return nil, err
	}
	return idx, nil
}

// SummaryCommand returns the log summary use case
func (a *App) SummaryCommand() *commands.SummaryCommand {
	return commands.NewSummaryCommand(a.Log)
}

// InsightsCommand returns the insight pipeline use case. opener may be nil
// when the caller presents the plot itself.
func (a *App) InsightsCommand(opener ports.DocumentOpener) *commands.InsightsCommand {
	if !a.Pipeline.IsAvailable() {
		a.Logger.Warn("script runtime not found on PATH", "runtime", a.Config.RuntimeCommand())
	}
	return commands.NewInsightsCommand(
		a.Log,
		a.Pipeline,
		opener,
		a.Config.ModelPath(),
		a.Config.PlotPath(),
		a.Logger,
	)
}

// FileBreakdownCommand returns the per-file breakdown use case
func (a *App) FileBreakdownCommand(index ports.ActivityIndex, limit int) *commands.FileBreakdownCommand {
	return commands.NewFileBreakdownCommand(a.Log, index, limit, a.Logger)
}

// HourlyBreakdownCommand returns the weekday/hour breakdown use case
func (a *App) HourlyBreakdownCommand(index ports.ActivityIndex) *commands.HourlyBreakdownCommand {
	return commands.NewHourlyBreakdownCommand(a.Log, index, a.Logger)
}
