package reload

import "codeberg.org/mutker/loopfetch/internal/errors"

const (
	ErrSourceRead  = errors.ErrorCode("reload_source_failed")
	ErrWatchFailed = errors.ErrorCode("reload_watch_failed")
)

func init() {
	errors.RegisterMessage(ErrSourceRead, "Failed to read script source")
	errors.RegisterMessage(ErrWatchFailed, "Failed to watch script file")
}
