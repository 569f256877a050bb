package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/logscope/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logscope: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		opts     app.Options
		follow   bool
		noFollow bool
	)
	cmd := &cobra.Command{
		Use:   "logscope [locations...]",
		Short: "Browse and filter structured application logs",
		Long: `logscope loads structured log entries from JSONL files, a SQLite store
or an HTTP endpoint and lets you filter them by subsystem, category,
library and level.

Locations override config.toml: globs for the file source, the database
path for sqlite and the endpoint for http.

Examples:
  logscope
  logscope "~/Library/Logs/app/**/*.jsonl"
  logscope --source sqlite ~/.local/share/logscope/logs.db
  logscope --source http 127.0.0.1:7488 --poll 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Locations = args
			switch {
			case noFollow:
				f := false
				opts.Follow = &f
			case follow:
				f := true
				opts.Follow = &f
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "override config path (default ~/.config/logscope/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "override prefs path (default ~/.config/logscope/prefs.toml)")
	flags.StringVar(&opts.SourceKind, "source", "", "log store: file, sqlite or http")
	flags.BoolVar(&follow, "follow", false, "reload when the store changes")
	flags.BoolVar(&noFollow, "no-follow", false, "load once and never reload automatically")
	flags.IntVar(&opts.PollSeconds, "poll", 0, "poll interval in seconds when following a non-file store")
	cmd.MarkFlagsMutuallyExclusive("follow", "no-follow")

	cmd.AddCommand(newImportCmd())
	return cmd
}
