package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logscope/internal/logentry"
)

// exportEntry writes the entry's share text to a new file in dir and returns its path.
// Each call creates a distinct file, even for entries with the same timestamp.
func exportEntry(dir string, e logentry.Entry) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	pattern := "logscope-" + e.Time.Format("20060102-150405.000") + "-*.txt"
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if _, err := f.WriteString(e.ShareText() + "\n"); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return f.Name(), nil
}

func exportCmd(dir string, e logentry.Entry) tea.Cmd {
	return func() tea.Msg {
		path, err := exportEntry(dir, e)
		return exportedMsg{path: path, err: err}
	}
}
