package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDelay coalesces the bursts of events an editor or a rename produces.
const watchDelay = 100 * time.Millisecond

// Watch signals on the returned channel whenever the log file is created,
// written, renamed over or removed by any process. The directory is watched
// rather than the file so that atomic replacements are seen. The channel is
// closed when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: creating watcher: %w", ErrStorage, err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("%w: watching %s: %w", ErrStorage, dir, err)
	}

	changes := make(chan struct{}, 1)
	target := filepath.Clean(s.path)

	go func() {
		defer close(changes)
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
				pending = nil
				select {
				case changes <- struct{}{}:
				default:
					// a change is already queued
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn().Err(err).Msg("file watcher error")
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
					!evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if pending == nil {
					pending = time.After(watchDelay)
				}
			}
		}
	}()

	return changes, nil
}
