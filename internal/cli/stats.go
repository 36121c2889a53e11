package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		RunE:  runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	return withStore(cmd, false, func(s *memory.Store) error {
		st := s.Stats()
		return render(cmd.OutOrStdout(), st, func(w io.Writer) {
			fmt.Fprintf(w, "%s: %d entries, %d tags, %d promoted\n", st.Location, st.Entries, len(st.Tags), len(st.Promoted))
			for _, tc := range st.Tags {
				mark := ""
				if tc.Promoted {
					mark = " *"
				}
				fmt.Fprintf(w, "  %-20s %d%s\n", tc.Tag, tc.Count, mark)
			}
		})
	})
}
