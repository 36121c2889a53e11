package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
	"github.com/rcliao/hippocampus/internal/model"
)

func init() {
	recallCmd := &cobra.Command{
		Use:   "recall [tag]",
		Short: "Recall the most recent entries for a tag",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecall,
	}
	recallCmd.Flags().IntP("top", "k", 0, "Max entries (default: recall.top_k)")

	promoteCmd := &cobra.Command{
		Use:   "promote [tag...]",
		Short: "Mark tags as long-term relevant",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPromote,
	}

	promotedCmd := &cobra.Command{
		Use:   "promoted",
		Short: "List promoted tags or their entries",
		RunE:  runPromoted,
	}
	promotedCmd.Flags().Bool("entries", false, "Output entries under promoted tags instead of tag names")

	RootCmd.AddCommand(recallCmd, promoteCmd, promotedCmd)
}

func runRecall(cmd *cobra.Command, args []string) error {
	topK, _ := cmd.Flags().GetInt("top")
	if topK <= 0 {
		topK = cfg.Recall.TopK
	}

	return withStore(cmd, false, func(s *memory.Store) error {
		entries := s.Recall(args[0], topK)
		return render(cmd.OutOrStdout(), entries, entryLines(entries))
	})
}

func runPromote(cmd *cobra.Command, args []string) error {
	return withStore(cmd, true, func(s *memory.Store) error {
		for _, tag := range args {
			s.Promote(tag)
		}
		promoted := s.Promoted()
		return render(cmd.OutOrStdout(), promoted, stringLines(promoted))
	})
}

func runPromoted(cmd *cobra.Command, args []string) error {
	withEntries, _ := cmd.Flags().GetBool("entries")

	return withStore(cmd, false, func(s *memory.Store) error {
		if withEntries {
			entries := s.GetPromoted()
			return render(cmd.OutOrStdout(), entries, entryLines(entries))
		}
		promoted := s.Promoted()
		return render(cmd.OutOrStdout(), promoted, stringLines(promoted))
	})
}

func entryLines(entries []model.Entry) func(io.Writer) {
	return func(w io.Writer) {
		for _, e := range entries {
			fmt.Fprintln(w, e.Summary())
		}
	}
}

func stringLines(lines []string) func(io.Writer) {
	return func(w io.Writer) {
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
	}
}
