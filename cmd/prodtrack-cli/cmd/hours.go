package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show characters added per weekday and hour (UTC)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		idx, err := a.OpenIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		totals, err := a.HourlyBreakdownCommand(idx).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(totals) == 0 {
			fmt.Fprintln(out, "No records found.")
			return nil
		}
		for _, ht := range totals {
			fmt.Fprintf(out, "%s  %10s\n", ht.Slot(), humanize.Comma(int64(ht.CharsAdded)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hoursCmd)
}
