// Package errors gives every powergym failure a stable ErrorCode. Codes
// survive wrapping, so the API can map them to HTTP statuses and the logger
// can attach them as fields no matter how deep the failure happened.
package errors

// ErrorCode identifies a failure independent of its message
type ErrorCode string

// Error is a coded error. WithMessage and WithData return copies; the
// receiver is never changed.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, cause error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
