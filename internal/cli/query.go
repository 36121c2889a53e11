package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
)

func init() {
	queryCmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Score entries against free text",
		Long:  "Score entries by whether the text appears in their tags and experience. Full matches promote the matching tags.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}

	countCmd := &cobra.Command{
		Use:   "count [substring]",
		Short: "Count entries whose experience contains a substring (case-sensitive)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCount,
	}

	RootCmd.AddCommand(queryCmd, countCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	// Query may promote tags, so the store is persisted afterwards.
	return withStore(cmd, true, func(s *memory.Store) error {
		matches := s.Query(text)
		return render(cmd.OutOrStdout(), matches, func(w io.Writer) {
			for _, m := range matches {
				fmt.Fprintf(w, "%.1f [%s] %s\n", m.Score, m.Label, m.Content)
			}
		})
	})
}

func runCount(cmd *cobra.Command, args []string) error {
	term := strings.Join(args, " ")

	return withStore(cmd, false, func(s *memory.Store) error {
		n := s.CountReferences(term)
		out := struct {
			Term  string `json:"term" yaml:"term"`
			Count int    `json:"count" yaml:"count"`
		}{term, n}
		return render(cmd.OutOrStdout(), out, func(w io.Writer) {
			fmt.Fprintln(w, n)
		})
	})
}
