package tools

import "errors"

// Kind names a class of tool failure. It is reported to clients as
// error.data.kind.
type Kind string

const (
	KindTimeout              Kind = "execution_timeout"
	KindExecutionFailed      Kind = "execution_failed"
	KindInitializationFailed Kind = "initialization_failed"
	KindIO                   Kind = "io_error"
	KindTool                 Kind = "tool_error"
)

// Error tags a handler failure with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with kind. A nil err stays nil.
func NewError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind attached to err, or KindTool when none is.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) && te.Kind != "" {
		return te.Kind
	}
	return KindTool
}
