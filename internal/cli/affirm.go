package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "affirm [file]",
		Short: "Load symbolic affirmations from a JSON array of strings",
		Long:  "Encode every phrase in the file with the symbolic, anchor and truth tags.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAffirm,
	}

	RootCmd.AddCommand(cmd)
}

func runAffirm(cmd *cobra.Command, args []string) error {
	return withStore(cmd, true, func(s *memory.Store) error {
		n, err := s.LoadAffirmations(args[0])
		if err != nil {
			return err
		}
		out := struct {
			OK      bool `json:"ok" yaml:"ok"`
			Encoded int  `json:"encoded" yaml:"encoded"`
		}{true, n}
		return render(cmd.OutOrStdout(), out, func(w io.Writer) {
			fmt.Fprintf(w, "encoded %d affirmations\n", n)
		})
	})
}
