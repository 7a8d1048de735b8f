package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/logger"
)

// Watch reloads the exclusion list whenever the file changes on disk and
// calls onChange with the new contents. It blocks until ctx is done.
// The parent directory is watched so editors that replace the file by rename
// are picked up.
func (s *LocalExclusionStore) Watch(ctx context.Context, onChange func(domain.ExclusionList)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Log("Watching %s for exclusion list changes", dir)

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			list, changed, err := s.reload()
			if err != nil {
				logger.LogError("WATCH_RELOAD", s.path, err)
				continue
			}
			if changed {
				logger.Log("Exclusion list changed on disk: %d users, %d repos", len(list.Users), len(list.Repos))
				onChange(list)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.LogError("WATCH", dir, err)
		}
	}
}
