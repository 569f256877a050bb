package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Source kinds.
const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Config captures everything logscope reads from config.toml.
type Config struct {
	AppSubsystem   string
	Subsystems     []string
	MainSender     string
	Follow         bool
	PollInterval   time.Duration
	DiagnosticsLog string
	ExportDir      string
	Source         SourceConfig
}

// SourceConfig selects and configures the log store.
type SourceConfig struct {
	Kind     string
	Paths    []string
	Database string
	Endpoint string
	Window   int
}

const (
	defaultConfigPath     = "~/.config/logscope/config.toml"
	defaultAppSubsystem   = "com.example.app"
	defaultMainSender     = "FBS"
	defaultPollInterval   = 2 * time.Second
	defaultDiagnosticsLog = "~/.local/state/logscope/logscope.log"
	defaultExportDir      = "~/Downloads"
	defaultLogGlob        = "~/.local/state/logscope/logs/**/*.jsonl"
	defaultDatabase       = "~/.local/share/logscope/logs.db"
	defaultEndpoint       = "127.0.0.1:7488"
	defaultWindow         = 5000
)

var defaultSubsystems = []string{"com.appsflyer.lib", "com.apple.runtime-issues"}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		AppSubsystem:   defaultAppSubsystem,
		Subsystems:     slices.Clone(defaultSubsystems),
		MainSender:     defaultMainSender,
		Follow:         true,
		PollInterval:   defaultPollInterval,
		DiagnosticsLog: mustExpand(defaultDiagnosticsLog),
		ExportDir:      mustExpand(defaultExportDir),
		Source: SourceConfig{
			Kind:     SourceFile,
			Paths:    []string{mustExpand(defaultLogGlob)},
			Database: mustExpand(defaultDatabase),
			Endpoint: defaultEndpoint,
			Window:   defaultWindow,
		},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		AppSubsystem   string   `toml:"app_subsystem"`
		Subsystems     []string `toml:"subsystems"`
		MainSender     string   `toml:"main_sender"`
		Follow         *bool    `toml:"follow"`
		PollSeconds    int      `toml:"poll_seconds"`
		DiagnosticsLog string   `toml:"diagnostics_log"`
		ExportDir      string   `toml:"export_dir"`
		Source         struct {
			Kind     string   `toml:"kind"`
			Paths    []string `toml:"paths"`
			Database string   `toml:"database"`
			Endpoint string   `toml:"endpoint"`
			Window   int      `toml:"window"`
		} `toml:"source"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.AppSubsystem); v != "" {
		cfg.AppSubsystem = v
	}
	if raw.Subsystems != nil {
		cfg.Subsystems = trimAll(raw.Subsystems)
	}
	if v := strings.TrimSpace(raw.MainSender); v != "" {
		cfg.MainSender = v
	}
	if raw.Follow != nil {
		cfg.Follow = *raw.Follow
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.DiagnosticsLog); v != "" {
		cfg.DiagnosticsLog = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ExportDir); v != "" {
		cfg.ExportDir = mustExpand(v)
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Source.Kind)); v != "" {
		cfg.Source.Kind = v
	}
	if paths := trimAll(raw.Source.Paths); len(paths) > 0 {
		cfg.Source.Paths = ExpandAll(paths)
	}
	if v := strings.TrimSpace(raw.Source.Database); v != "" {
		cfg.Source.Database = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Source.Endpoint); v != "" {
		cfg.Source.Endpoint = v
	}
	if raw.Source.Window > 0 {
		cfg.Source.Window = raw.Source.Window
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration the application cannot run with.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceFile:
		if len(c.Source.Paths) == 0 {
			return fmt.Errorf("source kind %q needs at least one path", c.Source.Kind)
		}
	case SourceSQLite:
		if strings.TrimSpace(c.Source.Database) == "" {
			return fmt.Errorf("source kind %q needs a database", c.Source.Kind)
		}
	case SourceHTTP:
	default:
		return fmt.Errorf("unknown source kind %q (want file, sqlite or http)", c.Source.Kind)
	}
	return nil
}

// AllowedSubsystems returns the application's own subsystem followed by the
// additional allowed subsystems, without duplicates.
func (c Config) AllowedSubsystems() []string {
	out := make([]string, 0, len(c.Subsystems)+1)
	if c.AppSubsystem != "" {
		out = append(out, c.AppSubsystem)
	}
	for _, s := range c.Subsystems {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// ExpandAll expands a leading ~ in every path. Glob characters are preserved.
func ExpandAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, mustExpand(p))
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
