// Package cli implements the hippocampus CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/hippocampus/internal/config"
	"github.com/rcliao/hippocampus/internal/logging"
	"github.com/rcliao/hippocampus/internal/memory"
	"github.com/rcliao/hippocampus/internal/persist"
)

var (
	configPath string
	formatFlag string

	cfg    *config.Config
	logger = zerolog.Nop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "hippocampus",
	Short: "Tagged experience memory",
	Long:  "Encode, recall, promote and decay tagged experiences. Text in, text out. JSON or SQLite backed.",

	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: ./hippocampus.yaml or ~/.hippocampus/config.yaml)")
	pf.StringP("db", "d", "", "Store path (default: $HIPPOCAMPUS_STORE_PATH or ~/.hippocampus/memory.json)")
	pf.String("backend", "", "Store backend: json or sqlite")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or text")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	v := config.New()
	pf := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"store.path":    "db",
		"store.backend": "backend",
		"log.level":     "log-level",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	c, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	return nil
}

// openStore builds the configured backend and loads the memory log.
func openStore(ctx context.Context) (*memory.Store, error) {
	backend, err := persist.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	s := memory.New(
		memory.WithBackend(backend),
		memory.WithLogger(logger),
	)
	// Skipped entries are reported by the store's warn log.
	if _, err := s.Load(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("load %s: %w", backend.Location(), err)
	}
	return s, nil
}

// withStore opens the store, runs fn and persists when fn mutated it.
func withStore(cmd *cobra.Command, mutates bool, fn func(s *memory.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return err
	}
	if mutates {
		if err := s.Persist(ctx); err != nil {
			return fmt.Errorf("persist: %w", err)
		}
	}
	return nil
}

// render writes v as JSON or YAML, or calls text for the text format.
func render(w io.Writer, v interface{}, text func(w io.Writer)) error {
	format := strings.ToLower(formatFlag)
	if format == "text" && text != nil {
		text(w)
		return nil
	}

	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
}

func parseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// readContent joins args, or reads piped stdin when there are none.
func readContent(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
