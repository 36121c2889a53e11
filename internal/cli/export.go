package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as JSON",
		Long:  "Export the memory log as a JSON array in log order. The output can be fed back through import.",
		RunE:  runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	return withStore(cmd, false, func(s *memory.Store) error {
		entries := s.Entries()
		return render(cmd.OutOrStdout(), entries, entryLines(entries))
	})
}
