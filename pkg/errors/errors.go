package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeStorage      Code = "STORAGE_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Metadata describes how an error of a given code is surfaced to the user.
// Foreground errors interrupt the user with a notification; background ones
// are logged and otherwise absorbed.
type Metadata struct {
	Foreground    bool
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Foreground:    true,
		Retryable:     false,
		PublicMessage: "validation failed",
	},
	CodeUnauthorized: {
		Foreground:    true,
		Retryable:     false,
		PublicMessage: "please login to continue",
	},
	CodeForbidden: {
		Foreground:    true,
		Retryable:     false,
		PublicMessage: "access denied",
	},
	CodeNotFound: {
		Foreground:    true,
		Retryable:     false,
		PublicMessage: "not found",
	},
	CodeStorage: {
		Foreground:    false,
		Retryable:     false,
		PublicMessage: "local storage unavailable",
	},
	CodeDependency: {
		Foreground:    false,
		Retryable:     true,
		PublicMessage: "server unavailable",
	},
	CodeInternal: {
		Foreground:    false,
		Retryable:     true,
		PublicMessage: "something went wrong",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// UserMessage returns the notification text for a foreground error: the
// error's own message when set, otherwise the code's public message.
func UserMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return MetadataFor(CodeInternal).PublicMessage
	}
	if typed.Message() != "" {
		return typed.Message()
	}
	return MetadataFor(typed.Code()).PublicMessage
}
