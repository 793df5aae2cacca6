package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"prodtrack/internal/application/commands"
)

var fileLimit int

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the files with the most characters added",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		idx, err := a.OpenIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		totals, err := a.FileBreakdownCommand(idx, fileLimit).Execute(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "CHARS\tSAVES\t")
		for _, ft := range totals {
			fmt.Fprintf(tw, "%s\t%d\t  %s\n", humanize.Comma(int64(ft.CharsAdded)), ft.Records, ft.FileName)
		}
		return tw.Flush()
	},
}

func init() {
	filesCmd.Flags().IntVarP(&fileLimit, "limit", "n", commands.DefaultFileLimit, "number of files to list")
	rootCmd.AddCommand(filesCmd)
}
