package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/prefs"
	"github.com/five82/logscope/internal/session"
	"github.com/five82/logscope/internal/source"
	"github.com/five82/logscope/internal/ui"
)

// Options configure the logscope application. Zero values defer to config.toml.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/logscope/prefs.toml
	SourceKind  string // file, sqlite or http
	Locations   []string
	Follow      *bool
	PollSeconds int
}

// Run boots the logscope TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return err
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		userPrefs = prefs.Defaults()
	}

	closeLog, err := logToFile(cfg.DiagnosticsLog)
	if err != nil {
		return err
	}
	defer closeLog()

	src, label, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()
	log.Printf("logscope starting: source=%s", label)

	allowed := cfg.AllowedSubsystems()
	sess := session.New(session.Options{
		Source:    src,
		Predicate: source.SubsystemIn(allowed, true),
		Accept:    source.DefaultAccept(allowed, cfg.MainSender),
	})

	// Initial fetch runs in the background so the UI can show the spinner
	sess.Load(ctx)

	if cfg.Follow {
		startFollowing(ctx, cfg, src, sess)
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   sess,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		ExportDir: cfg.ExportDir,
		Source:    label,
	})
}

// applyOverrides merges command-line options into cfg and revalidates it.
// Locations mean globs for the file source, the database path for sqlite
// and the endpoint for http.
func applyOverrides(cfg *config.Config, opts Options) error {
	if kind := strings.ToLower(strings.TrimSpace(opts.SourceKind)); kind != "" {
		cfg.Source.Kind = kind
	}
	if len(opts.Locations) > 0 {
		switch cfg.Source.Kind {
		case config.SourceSQLite:
			cfg.Source.Database = config.ExpandAll(opts.Locations[:1])[0]
		case config.SourceHTTP:
			cfg.Source.Endpoint = strings.TrimSpace(opts.Locations[0])
		default:
			cfg.Source.Paths = config.ExpandAll(opts.Locations)
		}
	}
	if opts.Follow != nil {
		cfg.Follow = *opts.Follow
	}
	if opts.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(opts.PollSeconds) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// openSource builds the configured store. The returned label describes it
// for the header; close releases it.
func openSource(cfg config.Config) (source.Source, string, func(), error) {
	noop := func() {}
	window := cfg.Source.Window
	switch cfg.Source.Kind {
	case config.SourceFile:
		return source.NewFileSource(cfg.Source.Paths, window), strings.Join(cfg.Source.Paths, ", "), noop, nil
	case config.SourceSQLite:
		src, err := source.OpenSQLite(cfg.Source.Database, window)
		if err != nil {
			return nil, "", noop, fmt.Errorf("open sqlite store: %w", err)
		}
		return src, cfg.Source.Database, func() { _ = src.Close() }, nil
	case config.SourceHTTP:
		src, err := source.NewHTTPSource(cfg.Source.Endpoint, window)
		if err != nil {
			return nil, "", noop, fmt.Errorf("init http source: %w", err)
		}
		return src, cfg.Source.Endpoint, noop, nil
	default:
		return nil, "", noop, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// startFollowing reloads on file changes for the file source, and polls otherwise.
func startFollowing(ctx context.Context, cfg config.Config, src source.Source, sess *session.Session) {
	if fs, ok := src.(*source.FileSource); ok {
		w, err := source.NewWatcher(fs)
		switch {
		case err != nil:
			log.Printf("file watch unavailable, polling instead: %v", err)
		case len(w.Dirs()) == 0:
			_ = w.Close()
			log.Printf("no log files matched yet, polling instead")
		default:
			StartWatcher(ctx, w, sess)
			return
		}
	}
	StartPoller(ctx, sess, cfg.PollInterval)
}

// logToFile sends the standard logger to path while the TUI owns the terminal.
func logToFile(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "logscope")
	if err != nil {
		return nil, fmt.Errorf("open diagnostics log: %w", err)
	}
	return func() { _ = f.Close() }, nil
}
