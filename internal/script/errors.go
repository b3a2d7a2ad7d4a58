package script

import "codeberg.org/mutker/loopfetch/internal/errors"

const (
	ErrScriptLoad    = errors.ErrorCode("script_load_failed")
	ErrScriptRuntime = errors.ErrorCode("script_runtime_failed")
	ErrScriptTimeout = errors.ErrorCode("script_timeout")
	ErrMarshal       = errors.ErrorCode("script_marshal_failed")
	ErrNoScript      = errors.ErrorCode("script_not_loaded")
)

func init() {
	errors.RegisterMessage(ErrScriptLoad, "Failed to load script")
	errors.RegisterMessage(ErrScriptRuntime, "Script raised an error")
	errors.RegisterMessage(ErrScriptTimeout, "Script exceeded its time budget")
	errors.RegisterMessage(ErrMarshal, "Value cannot be passed to the script")
	errors.RegisterMessage(ErrNoScript, "No script loaded")
}

// IsLoadError reports whether err means the current source never compiled.
func IsLoadError(err error) bool {
	return errors.HasCode(err, ErrScriptLoad) || errors.HasCode(err, ErrNoScript)
}
