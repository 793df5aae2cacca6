package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"prodtrack/internal/adapters/tui"
	"prodtrack/internal/app"
	"prodtrack/internal/config"
)

func main() {
	workspaceFlag := flag.String("workspace", config.WorkspacePath(), "workspace root")
	flag.Parse()

	// The terminal belongs to the dashboard
	a, err := app.Load(*workspaceFlag, io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	idx, err := a.OpenIndex()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	p := tea.NewProgram(tui.NewApp(a, idx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		idx.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
