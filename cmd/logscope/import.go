package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/source"
)

func newImportCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)
	cmd := &cobra.Command{
		Use:   "import <globs...>",
		Short: "Copy JSONL log files into the SQLite store",
		Long: `Reads every entry from the matching JSONL files and appends them to the
SQLite store, so later sessions can use --source sqlite.

Examples:
  logscope import "~/Library/Logs/app/**/*.jsonl"
  logscope import --db /tmp/logs.db app.jsonl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if database == "" {
				database = cfg.Source.Database
			}
			n, err := importFiles(cmd, config.ExpandAll(args), config.ExpandAll([]string{database})[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries into %s\n", n, database)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "override config path")
	cmd.Flags().StringVar(&database, "db", "", "SQLite database (default from config)")
	return cmd
}

// importFiles appends every entry matched by globs to the database and
// returns how many were written.
func importFiles(cmd *cobra.Command, globs []string, database string) (int, error) {
	ctx := cmd.Context()
	entries, err := source.NewFileSource(globs, 0).Entries(ctx, source.Query{})
	if err != nil {
		return 0, fmt.Errorf("read files: %w", err)
	}
	store, err := source.OpenSQLite(database, 0)
	if err != nil {
		return 0, fmt.Errorf("open sqlite store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Append(ctx, entries); err != nil {
		return 0, fmt.Errorf("append entries: %w", err)
	}
	return len(entries), nil
}
