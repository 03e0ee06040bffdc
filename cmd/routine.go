package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/spf13/cobra"
)

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Display the stretching routine",
	RunE: func(cmd *cobra.Command, args []string) error {
		routine := models.DefaultRoutine()
		out := cmd.OutOrStdout()

		// Set up color functions.
		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Fprintf(out, "\n%s\n", green("AI 스트레칭 코치"))
		fmt.Fprintf(out, "%s: %d\n", cyan("Stretches"), routine.Len())
		fmt.Fprintf(out, "%s: %.0f%%\n", cyan("Threshold"), models.PredictionThreshold*100)
		fmt.Fprintln(out, strings.Repeat("=", 60))

		for i, s := range routine.Stretches() {
			fmt.Fprintf(out, "%d. %s %s\n", i+1, s.Icon, s.DisplayName)
			fmt.Fprintf(out, "   %s: %s\n", cyan("Pose"), s.Name)
			fmt.Fprintf(out, "   %s: %d\n", cyan("Reps"), s.TargetReps)
			fmt.Fprintf(out, "   %s: %s\n", cyan("How"), s.Instructions)
		}
		fmt.Fprintln(out)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(routineCmd)
}
