package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"prodtrack/internal/adapters/tui/views"
	"prodtrack/internal/app"
	"prodtrack/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewHelp
)

// App is the main TUI application model
type App struct {
	editor ports.DocumentOpener

	state     ViewState
	dashboard *views.DashboardModel
	help      *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application over the workspace in a. The index
// stays owned by the caller.
func NewApp(a *app.App, index ports.ActivityIndex) *App {
	return newApp(&workspaceSource{app: a, index: index}, a.Editor)
}

func newApp(source views.DashboardSource, editor ports.DocumentOpener) *App {
	return &App{
		editor:    editor,
		state:     ViewDashboard,
		dashboard: views.NewDashboardModel(source),
		help:      views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToDashboardMsg:
		a.state = ViewDashboard
		return a, nil

	case views.OpenEditorMsg:
		a.state = ViewDashboard
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.dashboard.SetMessage("Editor failed: "+msg.err.Error(), views.MessageError)
			return a, nil
		}
		// The log may have been edited by hand
		return a, a.dashboard.Reload()
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	default:
		_, cmd = a.dashboard.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.dashboard.View()
	}
}
