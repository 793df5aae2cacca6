package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prodtrack/internal/app"
	"prodtrack/internal/application"
	"prodtrack/internal/config"
)

var (
	workspacePath string
	workspace     *app.App
)

var rootCmd = &cobra.Command{
	Use:   "prodtrack-cli",
	Short: "Inspect and feed the productivity log of a workspace",
	Long: `prodtrack-cli reads the productivity log a workspace accumulates
(characters added per file between saves) and runs the insight pipeline on it.

It can also track a workspace without an editor: "watch" treats every file
write under the workspace as a save.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		a, err := app.Load(workspacePath, os.Stderr)
		if err != nil {
			return err
		}
		workspace = a
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		msg := application.UserMessage(err)
		fmt.Fprintln(os.Stderr, msg)
		if !strings.HasSuffix(msg, err.Error()) {
			fmt.Fprintln(os.Stderr, "  "+err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspacePath, "workspace", "w", config.WorkspacePath(), "workspace root")
}

// GetApp returns the initialized workspace
func GetApp() *app.App {
	return workspace
}
