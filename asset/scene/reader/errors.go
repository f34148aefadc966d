package reader

import (
	"fmt"
	"strings"
)

// ParseError is returned by the scene readers when a model description cannot
// be loaded. A failed load never yields a partially populated scene.
type ParseError struct {
	// The resource being parsed and the 1-based line that triggered the error.
	// Line is 0 for errors that are not tied to a particular line.
	Path string
	Line int

	Msg string

	// Include frames (innermost first) when the failing file was pulled in by
	// a "call" statement.
	Stack []string

	// The underlying error, if any.
	Err error
}

func (e *ParseError) Error() string {
	var msg string
	if e.Path != "" {
		msg = fmt.Sprintf("[%s: %d] error: %s", e.Path, e.Line, e.Msg)
	} else {
		msg = fmt.Sprintf("error: %s", e.Msg)
	}

	if len(e.Stack) != 0 {
		msg += "\n" + strings.Join(e.Stack, "\n")
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
