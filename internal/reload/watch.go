package reload

import (
	"context"
	"path/filepath"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 150 * time.Millisecond

// Watch calls notify after the file at path is written or created. Bursts of events within debounce collapse into one call. The
// parent directory is watched so editors that replace the file atomically
// are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, notify func()) error {
	errFactory := errors.New()

	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errFactory.Wrap(ErrWatchFailed, err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return errFactory.Wrap(ErrWatchFailed, err)
	}

	logger.Debug().Str("path", path).Msg("Watching script")

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Str("path", path).Msg("Script watcher error")

		case <-timer.C:
			logger.Debug().Str("path", path).Msg("Script changed")
			notify()
		}
	}
}
