package metrics

import "codeberg.org/mutker/loopfetch/internal/errors"

const (
	ErrInvalidWindow = errors.ErrorCode("metrics_invalid_window")
)

func init() {
	errors.RegisterMessage(ErrInvalidWindow, "Invalid meter window")
}
