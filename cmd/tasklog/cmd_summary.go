package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklog/internal/summary"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show logged time against the work shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				day, err := resolveDate(a, date)
				if err != nil {
					return err
				}
				sum, _, err := a.tracker.Summary(cmd.Context(), day)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				pace := "behind"
				if sum.Ahead() {
					pace = "ahead"
				}
				fmt.Fprintf(out, "%s shift %s-%s\n", day, a.settings.WorkShiftStart, a.settings.WorkShiftEnd)
				fmt.Fprintf(out, "logged       %s (%.0f%% of shift)\n", summary.FormatHM(sum.TotalSeconds), sum.LoggedPercent)
				fmt.Fprintf(out, "shift passed %s (%.0f%%)\n", summary.FormatHM(sum.ShiftElapsedSeconds), sum.ShiftPercent)
				fmt.Fprintf(out, "pace         %s %s\n", summary.FormatDelta(sum.DeltaSeconds), pace)
				fmt.Fprintf(out, "billable     %s, internal %s\n", summary.FormatHM(sum.BillableSeconds), summary.FormatHM(sum.NonBillableSeconds))
				fmt.Fprintf(out, "productivity %.0f%%\n", sum.ProductivityPercent)
				if sum.TargetSeconds > 0 {
					fmt.Fprintf(out, "target       %s (%.0f%%)\n", summary.FormatHM(sum.TargetSeconds), sum.TargetPercent)
				}
				fmt.Fprintf(out, "tasks        %d\n", sum.TaskCount)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to summarize (YYYY-MM-DD, default today)")
	return cmd
}
