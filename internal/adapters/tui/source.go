package tui

import (
	"context"
	"errors"

	"prodtrack/internal/adapters/tui/views"
	"prodtrack/internal/app"
	"prodtrack/internal/application"
	"prodtrack/internal/application/commands"
	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// workspaceSource serves the dashboard from one workspace
type workspaceSource struct {
	app   *app.App
	index ports.ActivityIndex
}

var _ views.DashboardSource = (*workspaceSource)(nil)

func (s *workspaceSource) LogPath() string {
	return s.app.Log.Path()
}

func (s *workspaceSource) PlotPath() string {
	return s.app.Config.PlotPath()
}

func (s *workspaceSource) Summary(ctx context.Context) (*commands.SummaryResult, error) {
	return s.app.SummaryCommand().Execute(ctx)
}

// Files treats a missing log as an empty list; the summary already reports it
func (s *workspaceSource) Files(ctx context.Context, limit int) ([]domain.FileTotal, error) {
	totals, err := s.app.FileBreakdownCommand(s.index, limit).Execute(ctx)
	if errors.Is(err, application.ErrLogMissing) {
		return nil, nil
	}
	return totals, err
}

func (s *workspaceSource) Hours(ctx context.Context) ([]domain.HourTotal, error) {
	totals, err := s.app.HourlyBreakdownCommand(s.index).Execute(ctx)
	if errors.Is(err, application.ErrLogMissing) {
		return nil, nil
	}
	return totals, err
}

// GenerateInsights leaves opening the plot to the user ("o")
func (s *workspaceSource) GenerateInsights(ctx context.Context) (*commands.InsightsResult, error) {
	return s.app.InsightsCommand(nil).Execute(ctx)
}

func (s *workspaceSource) OpenPlot(path string) error {
	return s.app.Viewer.OpenFile(path)
}
