package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docfold/docfold-cli/internal/core/domain"
	"github.com/docfold/docfold-cli/internal/core/ports/driving"
	"github.com/docfold/docfold-cli/internal/core/services"
	"github.com/docfold/docfold-cli/internal/logger"
)

// debounceWindow batches filesystem events so one save (often several
// write events) triggers one regeneration.
const debounceWindow = 500 * time.Millisecond

// watchAndRegenerate blocks, re-running the pipeline whenever a watched
// source file changes. Returns when the command context is cancelled.
func watchAndRegenerate(cmd *cobra.Command, orch driving.GenerateOrchestrator, root string, settings domain.GenerateSettings) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		return err
	}

	cmd.Printf("Watching %s for changes (ctrl-c to stop)\n", root)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, settings.Extensions) {
				continue
			}
			// New directories must be watched before files land in them.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Warn("Not watching %s: %v", event.Name, err)
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			summary, err := orch.Generate(cmd.Context(), root)
			if err != nil {
				logger.Warn("Regeneration failed: %v", err)
				continue
			}
			cmd.Print(renderSummary(summary))
		}
	}
}

// watchTree registers every non-excluded directory under start.
func watchTree(watcher *fsnotify.Watcher, start string) error {
	return filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != start && services.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relevantEvent reports whether an event can affect generation output.
func relevantEvent(event fsnotify.Event, extensions []string) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	// Directory events matter for watch registration and deletions.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return true
	}
	if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
