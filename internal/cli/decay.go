package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
)

func init() {
	decayCmd := &cobra.Command{
		Use:   "decay",
		Short: "Purge entries older than a number of days",
		RunE:  runDecay,
	}
	decayCmd.Flags().Int("days", 0, "Max age in days (default: decay.max_age_days)")

	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Show the most recent entries",
		RunE:  runSummarize,
	}
	summarizeCmd.Flags().IntP("limit", "l", memory.DefaultSummaryLimit, "Number of entries")

	RootCmd.AddCommand(decayCmd, summarizeCmd)
}

func runDecay(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = cfg.Decay.MaxAgeDays
	}

	return withStore(cmd, true, func(s *memory.Store) error {
		res := s.Decay(days)
		return render(cmd.OutOrStdout(), res, func(w io.Writer) {
			fmt.Fprintf(w, "purged %d, retained %d (cutoff %s)\n", res.Purged, res.Retained, res.Cutoff.Format("2006-01-02T15:04:05"))
		})
	})
}

func runSummarize(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	return withStore(cmd, false, func(s *memory.Store) error {
		lines := s.Summarize(limit)
		return render(cmd.OutOrStdout(), lines, stringLines(lines))
	})
}
