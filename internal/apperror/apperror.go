// Package apperror defines the failure kinds shared by the pipeline components.
// Callers match on Kind instead of inspecting message strings.
package apperror

import "errors"

// Kind classifies a failure so the HTTP layer can pick a status code.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindExtraction
	KindGeneration
	KindCompilationFailure
	KindCompilationTimeout
	KindCompilerUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindExtraction:
		return "extraction"
	case KindGeneration:
		return "generation"
	case KindCompilationFailure:
		return "compilation_failure"
	case KindCompilationTimeout:
		return "compilation_timeout"
	case KindCompilerUnavailable:
		return "compiler_unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns a classified error that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the client-safe message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return ""
}
