package proto

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Exception is the server's wire-level error report: code, name,
// display text, a formatted stack trace, and an optional nested cause.
type Exception struct {
	Code        int32
	Name        string
	DisplayText string
	StackTrace  string
	Nested      *Exception
}

// Decode reads one Exception body, following has_nested chains until it
// sees 0.
func (e *Exception) Decode(r *Reader) error {
	code, err := r.Int32()
	if err != nil {
		return errors.Wrap(err, "code")
	}
	name, err := r.Str()
	if err != nil {
		return errors.Wrap(err, "name")
	}
	text, err := r.Str()
	if err != nil {
		return errors.Wrap(err, "display_text")
	}
	stack, err := r.Str()
	if err != nil {
		return errors.Wrap(err, "stack_trace")
	}
	hasNested, err := r.Bool()
	if err != nil {
		return errors.Wrap(err, "has_nested")
	}
	e.Code, e.Name, e.DisplayText, e.StackTrace = code, name, text, stack
	if hasNested {
		e.Nested = new(Exception)
		if err := e.Nested.Decode(r); err != nil {
			return errors.Wrap(err, "nested")
		}
	}
	return nil
}

func (e *Exception) Error() string {
	if e.Nested != nil {
		return fmt.Sprintf("clickhouse: code %d, %s: %s: %s", e.Code, e.Name, e.DisplayText, e.Nested.Error())
	}
	return fmt.Sprintf("clickhouse: code %d, %s: %s", e.Code, e.Name, e.DisplayText)
}

// IsException reports whether err is (or wraps) a server Exception.
func IsException(err error) bool {
	var e *Exception
	return errors.As(err, &e)
}
