package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"prodtrack/internal/ports"
)

var openPlot bool

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Train the model on the log and render the insight plot",
	Long: `Run the training script on the productivity log, then the insight
script on the trained model. The plot path is printed on success.

Examples:
  prodtrack-cli insights
  prodtrack-cli insights --open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()

		var opener ports.DocumentOpener
		if openPlot {
			opener = a.Viewer
		}

		result, err := a.InsightsCommand(opener).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		if result.OpenErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not open plot: %v\n", result.OpenErr)
		}
		return nil
	},
}

func init() {
	insightsCmd.Flags().BoolVar(&openPlot, "open", false, "open the plot with the system viewer")
	rootCmd.AddCommand(insightsCmd)
}
