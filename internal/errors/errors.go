package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

type codedError struct {
	code    ErrorCode
	message string
	cause   error
	data    any
}

// Error renders "message[: data][: cause]". The message falls back to the
// text registered for the code.
func (e *codedError) Error() string {
	msg := e.message
	if msg == "" {
		msg = GetErrorMessage(e.code)
	}

	parts := []string{msg}
	if e.data != nil {
		parts = append(parts, fmt.Sprint(e.data))
	}
	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *codedError) Code() ErrorCode {
	return e.code
}

func (e *codedError) WithMessage(msg string) Error {
	c := *e
	c.message = msg
	return &c
}

func (e *codedError) WithData(data any) Error {
	c := *e
	c.data = data
	return &c
}

func (e *codedError) GetData() any {
	return e.data
}

func (e *codedError) Unwrap() error {
	return e.cause
}

type factory struct{}

func (factory) New(code ErrorCode) Error {
	return &codedError{code: code}
}

func (factory) Wrap(code ErrorCode, cause error) Error {
	return &codedError{code: code, cause: cause}
}

func (factory) WithMessage(code ErrorCode, msg string) Error {
	return &codedError{code: code, message: msg}
}

func (factory) WithData(code ErrorCode, data any) Error {
	return &codedError{code: code, data: data}
}

// New returns the Factory used across powergym
func New() Factory {
	return factory{}
}

// CodeOf returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func CodeOf(err error) ErrorCode {
	var coded Error
	if As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// HasCode reports whether any error in err's chain carries the given code
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var coded Error
		if !As(err, &coded) {
			return false
		}
		if coded.Code() == code {
			return true
		}
		err = coded.Unwrap()
	}
	return false
}
