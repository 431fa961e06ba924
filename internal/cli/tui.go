package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/termfolio/internal/blog"
	"github.com/csheth/termfolio/internal/content"
	"github.com/csheth/termfolio/internal/logging"
	"github.com/csheth/termfolio/internal/tui"
)

// defaultLogFile is where the full-screen UI logs when --log-file is unset.
func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "termfolio", "termfolio.log")
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	cfg := opts.cfg
	profile, err := content.LoadOrDefault(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = defaultLogFile()
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(logFile, level)
	logging.FromContext(ctx).Debug("ui logging redirected", "path", logPath)

	model := tui.New(tui.Config{
		Profile:      profile,
		Blog:         blog.Source{Location: cfg.BlogIndex},
		CacheDir:     cfg.CacheDir,
		LoadingDelay: cfg.LoadingDelay,
		TypingScale:  cfg.TypingSpeedScale,
		Logger:       logger,
	})

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if !cfg.NoAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, programOpts...).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	logger.Info("termfolio exited")
	return nil
}
