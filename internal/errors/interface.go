package errors

// ErrorCode identifies a failure class. Packages declare their own codes and
// register a message for each in init.
type ErrorCode string

// Coded is anything that carries an ErrorCode.
type Coded interface {
	Code() ErrorCode
}

// Error is a coded error with an optional message override and payload. The
// payload replaces the wrapped error in the rendered text.
type Error interface {
	error
	Coded
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
