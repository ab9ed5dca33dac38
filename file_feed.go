package bindit

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileFeed watches a file for changes and emits its contents. Pair it
// with a Follower to prefill a form from a document on disk and keep it
// synchronized with edits.
type FileFeed struct {
	path string
}

// NewFileFeed creates a new FileFeed for the given file path.
func NewFileFeed(path string) *FileFeed {
	return &FileFeed{path: path}
}

// Watch begins watching the file and returns a channel that emits the
// file contents whenever the file is written. The current file contents
// are emitted immediately to support initial prefill.
func (f *FileFeed) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(f.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", f.path, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		// Emit initial contents
		if data, err := os.ReadFile(f.path); err == nil {
			select {
			case out <- data:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Only emit on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				data, err := os.ReadFile(f.path)
				if err != nil {
					continue
				}

				select {
				case out <- data:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}
