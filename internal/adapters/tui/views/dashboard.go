package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"prodtrack/internal/adapters/tui/styles"
	"prodtrack/internal/application"
	"prodtrack/internal/application/commands"
	"prodtrack/internal/domain"
)

// FileListLimit is the number of files the dashboard loads
const FileListLimit = 50

// DashboardSource supplies the data and actions behind the dashboard
type DashboardSource interface {
	LogPath() string
	PlotPath() string
	Summary(ctx context.Context) (*commands.SummaryResult, error)
	Files(ctx context.Context, limit int) ([]domain.FileTotal, error)
	Hours(ctx context.Context) ([]domain.HourTotal, error)
	GenerateInsights(ctx context.Context) (*commands.InsightsResult, error)
	OpenPlot(path string) error
}

// DashboardKeyMap defines key bindings for the dashboard
type DashboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Edit     key.Binding
	EditLog  key.Binding
	Generate key.Binding
	OpenPlot key.Binding
	Copy     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var DashboardKeys = DashboardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next page"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit file"),
	),
	EditLog: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit log"),
	),
	Generate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "insights"),
	),
	OpenPlot: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open plot"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy summary"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// DashboardState is the dashboard's loading state
type DashboardState int

const (
	DashboardLoading DashboardState = iota
	DashboardReady
	DashboardGenerating
)

type dashboardLoadedMsg struct {
	summary *commands.SummaryResult
	files   []domain.FileTotal
	hours   []domain.HourTotal
	err     error
}

type insightsDoneMsg struct {
	result *commands.InsightsResult
	err    error
}

type plotOpenedMsg struct {
	path string
	err  error
}

// DashboardModel shows the log summary, the busiest files and the weekly
// activity heatmap.
type DashboardModel struct {
	ViewState
	source  DashboardSource
	state   DashboardState
	spinner spinner.Model
	pager   *Paginator

	summary *commands.SummaryResult
	files   []domain.FileTotal
	hours   []domain.HourTotal

	// copy is swapped in tests
	copy func(text string) error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(source DashboardSource) *DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &DashboardModel{
		source:  source,
		state:   DashboardLoading,
		spinner: s,
		pager:   NewPaginator(10),
		copy:    clipboard.WriteAll,
	}
}

// Init starts loading the dashboard data
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Reload())
}

// Reload reads the log again
func (m *DashboardModel) Reload() tea.Cmd {
	m.state = DashboardLoading
	source := m.source
	return func() tea.Msg {
		return load(context.Background(), source)
	}
}

func load(ctx context.Context, source DashboardSource) dashboardLoadedMsg {
	summary, err := source.Summary(ctx)
	if err != nil {
		return dashboardLoadedMsg{err: err}
	}
	if summary.NoData {
		return dashboardLoadedMsg{summary: summary}
	}

	files, err := source.Files(ctx, FileListLimit)
	if err != nil {
		return dashboardLoadedMsg{summary: summary, err: err}
	}
	hours, err := source.Hours(ctx)
	if err != nil {
		return dashboardLoadedMsg{summary: summary, files: files, err: err}
	}
	return dashboardLoadedMsg{summary: summary, files: files, hours: hours}
}

// State returns the current loading state
func (m *DashboardModel) State() DashboardState {
	return m.state
}

// Update handles messages for the dashboard
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.state != DashboardReady {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case dashboardLoadedMsg:
		m.state = DashboardReady
		m.summary = msg.summary
		m.files = msg.files
		m.hours = msg.hours
		m.pager.SetTotal(len(m.files))
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), MessageError)
		}
		return m, nil

	case insightsDoneMsg:
		m.state = DashboardReady
		if msg.err != nil {
			m.SetMessage(insightsErrorText(msg.err), MessageError)
			return m, nil
		}
		m.SetMessage(msg.result.Message, MessageInfo)
		return m, nil

	case plotOpenedMsg:
		if msg.err != nil {
			m.SetMessage(fmt.Sprintf("Could not open %s: %v", msg.path, msg.err), MessageWarning)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, DashboardKeys.Quit) {
		return m, tea.Quit
	}
	if m.state == DashboardGenerating {
		return m, nil
	}

	switch {
	case key.Matches(msg, DashboardKeys.Up):
		m.pager.CursorUp()
	case key.Matches(msg, DashboardKeys.Down):
		m.pager.CursorDown()
	case key.Matches(msg, DashboardKeys.PrevPage):
		m.pager.PrevPage()
	case key.Matches(msg, DashboardKeys.NextPage):
		m.pager.NextPage()

	case key.Matches(msg, DashboardKeys.Edit):
		if len(m.files) == 0 {
			return m, nil
		}
		path := m.files[m.pager.Cursor()].FileName
		return m, func() tea.Msg { return OpenEditorMsg{Path: path} }

	case key.Matches(msg, DashboardKeys.EditLog):
		path := m.source.LogPath()
		return m, func() tea.Msg { return OpenEditorMsg{Path: path} }

	case key.Matches(msg, DashboardKeys.Generate):
		m.ClearMessage()
		m.state = DashboardGenerating
		source := m.source
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			result, err := source.GenerateInsights(context.Background())
			return insightsDoneMsg{result: result, err: err}
		})

	case key.Matches(msg, DashboardKeys.OpenPlot):
		source := m.source
		path := source.PlotPath()
		return m, func() tea.Msg {
			return plotOpenedMsg{path: path, err: source.OpenPlot(path)}
		}

	case key.Matches(msg, DashboardKeys.Copy):
		if m.summary == nil {
			return m, nil
		}
		if err := m.copy(m.summary.Message); err != nil {
			m.SetMessage(fmt.Sprintf("Clipboard unavailable: %v", err), MessageWarning)
		} else {
			m.SetMessage("Summary copied to clipboard", MessageInfo)
		}

	case key.Matches(msg, DashboardKeys.Reload):
		m.ClearMessage()
		return m, tea.Batch(m.spinner.Tick, m.Reload())

	case key.Matches(msg, DashboardKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }
	}

	return m, nil
}

func insightsErrorText(err error) string {
	text := application.UserMessage(err)
	var pipeErr *application.PipelineError
	if errors.As(err, &pipeErr) {
		text += "\n" + pipeErr.Err.Error()
	}
	return text
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	v := NewViewBuilder().
		Title("Productivity Tracker").
		Subtitle(m.source.LogPath())

	switch m.state {
	case DashboardLoading:
		v.Line(m.spinner.View() + " Reading log...")
		return v.String()
	case DashboardGenerating:
		v.Line(m.spinner.View() + " Training model and rendering insights...").BlankLine()
	}

	if m.summary == nil || m.summary.NoData {
		v.Muted(commands.NoDataMessage).BlankLine()
	} else {
		m.renderSummary(v)
		m.renderFiles(v)
		m.renderHeatmap(v)
	}

	v.Message(m.Message, m.MessageKind)
	v.Help(DashboardKeys.Generate, DashboardKeys.OpenPlot, DashboardKeys.Copy,
		DashboardKeys.Reload, DashboardKeys.Help, DashboardKeys.Quit)
	return v.String()
}

func (m *DashboardModel) renderSummary(v *ViewBuilder) {
	s := m.summary.Summary
	stat := func(label, value string) {
		v.Line(styles.StatLabel.Render(label) + styles.Stat.Render(value))
	}

	v.Section("Summary")
	stat("Files saved", humanize.Comma(int64(s.Count)))
	stat("Total characters added", humanize.Comma(int64(s.TotalCharsAdded)))
	stat("Distinct files", humanize.Comma(int64(s.DistinctFiles)))
	if first, err := (domain.LogRecord{Timestamp: s.First}).Time(); err == nil {
		stat("Tracking since", humanize.Time(first))
	}
	if last, err := (domain.LogRecord{Timestamp: s.Last}).Time(); err == nil {
		stat("Last flush", humanize.Time(last))
	}
	v.BlankLine()
}

func (m *DashboardModel) renderFiles(v *ViewBuilder) {
	v.Section(fmt.Sprintf("Top files (page %d/%d)", m.pager.CurrentPage(), m.pager.TotalPages()))
	if len(m.files) == 0 {
		v.Muted("  no files").BlankLine()
		return
	}

	top := m.files[0].CharsAdded
	nameWidth := 48
	if m.Width > 0 {
		nameWidth = max(20, m.Width-40)
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		ft := m.files[i]
		line := fmt.Sprintf("%-*s %9s ", nameWidth, Truncate(ft.FileName, nameWidth), humanize.Comma(int64(ft.CharsAdded)))
		style := styles.Row
		if i == m.pager.Cursor() {
			style = styles.RowSelected
		}
		v.Line(style.Render(line) + " " + RenderBar(ft.CharsAdded, top, 16))
	}
	v.BlankLine()
}

func (m *DashboardModel) renderHeatmap(v *ViewBuilder) {
	if len(m.hours) == 0 {
		return
	}

	var grid [8][24]int
	peak := 0
	for _, ht := range m.hours {
		if ht.Weekday < 1 || ht.Weekday > 7 || ht.Hour < 0 || ht.Hour > 23 {
			continue
		}
		grid[ht.Weekday][ht.Hour] += ht.CharsAdded
		peak = max(peak, grid[ht.Weekday][ht.Hour])
	}

	v.Section("Activity by hour (UTC)")
	v.Muted("     0     6     12    18   ")
	for wd := 1; wd <= 7; wd++ {
		var row strings.Builder
		row.WriteString(styles.MutedText.Render(domain.WeekdayName(wd) + "  "))
		for h := 0; h < 24; h++ {
			cell := lipgloss.NewStyle().Foreground(styles.HeatColor(grid[wd][h], peak))
			row.WriteString(cell.Render("■"))
		}
		v.Line(row.String())
	}
	v.BlankLine()
}
