package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"prodtrack/internal/adapters/watcher"
	"prodtrack/internal/application/session"
)

var (
	watchInterval time.Duration
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Track the workspace without an editor",
	Long: `Watch the workspace tree and treat every file write as a save.
Existing files are measured once at startup, so only growth after that is
recorded. Pending growth is flushed on the configured interval and on exit
(Ctrl+C).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var opts []session.Option
		if watchInterval > 0 {
			opts = append(opts, session.WithInterval(watchInterval))
		}
		s, err := a.NewSession(opts...)
		if err != nil {
			return err
		}

		if err := s.Activate(ctx); err != nil {
			return err
		}

		w := watcher.New(a.Config.Workspace, s,
			watcher.WithDebounce(watchDebounce),
			watcher.WithLogger(a.Logger),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, logging to %s\n", a.Config.Workspace, a.Log.Path())

		runErr := w.Run(ctx)

		if err := s.Deactivate(context.Background()); err != nil {
			return err
		}
		return runErr
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "flush interval (default from config)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a write counts as a save")
	rootCmd.AddCommand(watchCmd)
}
