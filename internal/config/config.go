// Package config resolves the workspace, the optional .prodtrack.toml file and
// the logger shared by every binary.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"prodtrack/internal/application"
)

// File and default names
const (
	FileName             = ".prodtrack.toml"
	DefaultLogFile       = "productivity_log.json"
	DefaultModelFile     = "productivity_model.pkl"
	DefaultPlotFile      = "productivity_plot.png"
	DefaultRuntime       = "python3"
	DefaultTrainScript   = "train_model.py"
	DefaultInsightScript = "generate_insights.py"
	DefaultScriptsDir    = "scripts"
	DefaultFlushInterval = 5 * time.Minute
	DefaultLogLevel      = "info"
	WorkspaceEnv         = "PRODTRACK_WORKSPACE"
	ConfigEnv            = "PRODTRACK_CONFIG"
	minimumFlushInterval = time.Second
)

// Duration decodes Go duration strings ("90s", "5m") from TOML
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the per-workspace configuration
type Config struct {
	LogFile       string   `toml:"log_file"`
	ModelFile     string   `toml:"model_file"`
	PlotFile      string   `toml:"plot_file"`
	Runtime       string   `toml:"runtime"`
	ScriptsDir    string   `toml:"scripts_dir"`
	TrainScript   string   `toml:"train_script"`
	InsightScript string   `toml:"insight_script"`
	FlushInterval Duration `toml:"flush_interval"`
	LogLevel      string   `toml:"log_level"`

	// Workspace is the absolute workspace root, never read from the file
	Workspace string `toml:"-"`
}

// Default returns the configuration used when no file is present
func Default(workspace string) *Config {
	return &Config{
		LogFile:       DefaultLogFile,
		ModelFile:     DefaultModelFile,
		PlotFile:      DefaultPlotFile,
		Runtime:       DefaultRuntime,
		ScriptsDir:    DefaultScriptsDir,
		TrainScript:   DefaultTrainScript,
		InsightScript: DefaultInsightScript,
		FlushInterval: Duration{DefaultFlushInterval},
		LogLevel:      DefaultLogLevel,
		Workspace:     workspace,
	}
}

// WorkspacePath returns the workspace from PRODTRACK_WORKSPACE, falling back
// to the current directory.
func WorkspacePath() string {
	if env := os.Getenv(WorkspaceEnv); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Load reads the configuration for workspace. A missing file yields the
// defaults; PRODTRACK_CONFIG overrides the file location.
func Load(workspace string) (*Config, error) {
	if workspace == "" {
		return nil, errors.New("workspace is required")
	}
	abs, err := filepath.Abs(expandHome(workspace))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	cfg := Default(abs)

	path := filepath.Join(abs, FileName)
	if env := os.Getenv(ConfigEnv); env != "" {
		path = expandHome(env)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	cfg.Workspace = abs

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed by falling back to defaults
func (c *Config) Validate() error {
	if c.FlushInterval.Duration != 0 && c.FlushInterval.Duration < minimumFlushInterval {
		return fmt.Errorf("flush_interval must be at least %s", minimumFlushInterval)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := application.ValidateAbsolute("modelPath", c.ModelPath()); err != nil {
		return err
	}
	if err := application.ValidateAbsolute("plotPath", c.PlotPath()); err != nil {
		return err
	}
	return nil
}

// LogPath returns the absolute path of the productivity log
func (c *Config) LogPath() string {
	return c.resolve(c.Workspace, c.LogFile, DefaultLogFile)
}

// ModelPath returns the absolute path of the model artifact
func (c *Config) ModelPath() string {
	return c.resolve(c.Workspace, c.ModelFile, DefaultModelFile)
}

// PlotPath returns the absolute path of the insight plot
func (c *Config) PlotPath() string {
	return c.resolve(c.Workspace, c.PlotFile, DefaultPlotFile)
}

// TrainScriptPath returns the absolute path of the training script
func (c *Config) TrainScriptPath() string {
	return c.resolve(c.scriptsDir(), c.TrainScript, DefaultTrainScript)
}

// InsightScriptPath returns the absolute path of the plotting script
func (c *Config) InsightScriptPath() string {
	return c.resolve(c.scriptsDir(), c.InsightScript, DefaultInsightScript)
}

// Interval returns the flush interval
func (c *Config) Interval() time.Duration {
	if c.FlushInterval.Duration <= 0 {
		return DefaultFlushInterval
	}
	return c.FlushInterval.Duration
}

// RuntimeCommand returns the interpreter used for the scripts
func (c *Config) RuntimeCommand() string {
	if c.Runtime == "" {
		return DefaultRuntime
	}
	return c.Runtime
}

func (c *Config) scriptsDir() string {
	return c.resolve(c.Workspace, c.ScriptsDir, DefaultScriptsDir)
}

func (c *Config) resolve(base, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	value = expandHome(value)
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(base, value)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ParseLevel converts a config level name into a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", name)
	}
}

// NewLogger builds the text logger every binary writes to w
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
