package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/SalesDash/internal/dashboard"
)

var watchDebounce time.Duration

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-analyze a sales file whenever it changes",
		Long: `Monitor a CSV file and re-run the analysis every time it is saved.

Uses file system notifications to detect changes. Each result is printed in
the selected output format. Press Ctrl+C to stop watching.

Examples:
  salesdash watch sales.csv
  salesdash watch -o json sales.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period after a change before re-analyzing")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := filepath.Clean(args[0])
	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	provider, cleanup, err := newProvider(GetGlobalConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching file: %s\n", filename)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	w := &fileWatch{
		filename:   filename,
		controller: dashboard.NewController(provider, GetLogger("dashboard")),
		stdout:     cmd.OutOrStdout(),
		stderr:     cmd.ErrOrStderr(),
	}
	w.analyze(ctx)
	return w.loop(ctx, watcher, watchDebounce)
}

// fileWatch re-runs the analysis for one file
type fileWatch struct {
	filename   string
	controller *dashboard.Controller
	stdout     io.Writer
	stderr     io.Writer
}

// analyze reads the file and prints the outcome. Failures are reported and
// the watch continues.
func (w *fileWatch) analyze(ctx context.Context) {
	raw, err := readInput([]string{w.filename}, nil)
	if err != nil {
		fmt.Fprintf(w.stderr, "Error reading %s: %v\n", w.filename, err)
		return
	}

	fmt.Fprintf(w.stderr, "[%s] Analyzing %s...\n", time.Now().Format("15:04:05"), filepath.Base(w.filename))
	state := analyzeOnce(ctx, w.controller, raw)
	if err := printState(w.stdout, w.stderr, state, ""); err != nil && isVerbose() {
		fmt.Fprintf(w.stderr, "Analysis error: %v\n", err)
	}
}

// loop waits for writes to the file, debounces bursts and re-analyzes
func (w *fileWatch) loop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = time.Millisecond
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.isRelevant(event) {
				timer.Reset(debounce)
			}

		case <-timer.C:
			w.analyze(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// isRelevant reports whether event changed the watched file's content.
// Editors that save by rename show up as Create on the same name.
func (w *fileWatch) isRelevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.filename {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// createWatcher watches the file's directory so atomic saves are seen
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
