package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/hippocampus/internal/memory"
	"github.com/rcliao/hippocampus/internal/model"
)

func init() {
	encodeCmd := &cobra.Command{
		Use:   "encode [experience]",
		Short: "Store an experience",
		Long:  "Store an experience stamped with the current time. Content can be a positional arg or piped via stdin. Untagged entries are filed under \"untagged\".",
		RunE:  runEncode,
	}
	encodeCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")

	threadCmd := &cobra.Command{
		Use:   "thread [text]",
		Short: "Append a threaded entry (conversation, event sequence)",
		Long:  "Like encode, but untagged threads are filed under \"thread\".",
		RunE:  runThread,
	}
	threadCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")

	ingestCmd := &cobra.Command{
		Use:   "ingest [experience]",
		Short: "Replay a preformatted entry with its own timestamp",
		RunE:  runIngest,
	}
	ingestCmd.Flags().String("timestamp", "", "ISO-8601 timestamp (default: now)")
	ingestCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")

	RootCmd.AddCommand(encodeCmd, threadCmd, ingestCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	return encodeWith(cmd, args, func(s *memory.Store, content string, tags []string) model.Entry {
		return s.Encode(content, tags...)
	})
}

func runThread(cmd *cobra.Command, args []string) error {
	return encodeWith(cmd, args, func(s *memory.Store, content string, tags []string) model.Entry {
		return s.AppendThread(content, tags...)
	})
}

func runIngest(cmd *cobra.Command, args []string) error {
	ts, _ := cmd.Flags().GetString("timestamp")
	return encodeWith(cmd, args, func(s *memory.Store, content string, tags []string) model.Entry {
		return s.Ingest(memory.Strip{Timestamp: ts, Experience: content, Tags: tags})
	})
}

func encodeWith(cmd *cobra.Command, args []string, add func(*memory.Store, string, []string) model.Entry) error {
	tagsStr, _ := cmd.Flags().GetString("tags")

	content, err := readContent(cmd, args)
	if err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("content is required (positional arg or stdin)")
	}

	return withStore(cmd, true, func(s *memory.Store) error {
		e := add(s, content, parseTags(tagsStr))
		return render(cmd.OutOrStdout(), e, func(w io.Writer) {
			fmt.Fprintln(w, e.Summary())
		})
	})
}
