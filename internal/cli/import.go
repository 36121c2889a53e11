package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import entries from JSON",
		Long:  "Ingest a JSON array of entries (file or stdin), keeping their timestamps. Expects the format produced by export.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	var strips []memory.Strip
	if err := json.NewDecoder(in).Decode(&strips); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	return withStore(cmd, true, func(s *memory.Store) error {
		for _, strip := range strips {
			s.Ingest(strip)
		}
		out := struct {
			OK       bool `json:"ok" yaml:"ok"`
			Imported int  `json:"imported" yaml:"imported"`
		}{true, len(strips)}
		return render(cmd.OutOrStdout(), out, func(w io.Writer) {
			fmt.Fprintf(w, "imported %d entries\n", len(strips))
		})
	})
}
