package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Heatmap ramp, coldest first
	Heat = []lipgloss.Color{
		lipgloss.Color("#1F2937"),
		lipgloss.Color("#064E3B"),
		lipgloss.Color("#047857"),
		lipgloss.Color("#10B981"),
		lipgloss.Color("#6EE7B7"),
	}

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	Section = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	// Summary figures
	Stat = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	StatLabel = lipgloss.NewStyle().
			Foreground(Muted).
			Width(24)

	// File list
	Row = lipgloss.NewStyle()

	RowSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	Bar = lipgloss.NewStyle().
		Foreground(Secondary)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// HeatColor maps value in [0, max] onto the heatmap ramp
func HeatColor(value, max int) lipgloss.Color {
	if value <= 0 || max <= 0 {
		return Heat[0]
	}
	steps := len(Heat) - 1
	idx := 1 + (value*steps-1)/max
	if idx > steps {
		idx = steps
	}
	return Heat[idx]
}
