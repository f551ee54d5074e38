package cmdlang

import (
	sterrors "errors"
	"fmt"
)

type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	ExecutionError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "Syntax Error"
	case ExecutionError:
		return "Execution Error"
	default:
		return "Error"
	}
}

// Error is the single failure type produced by the lexer, parser and
// interpreter. Line and Column are zero when the failure has no source
// position (most execution errors).
type Error struct {
	Kind   ErrorKind
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func NewSyntaxError(tok Token, format string, args ...any) *Error {
	return &Error{Kind: SyntaxError, Msg: fmt.Sprintf(format, args...), Line: tok.Line, Column: tok.Column}
}

func NewExecutionError(format string, args ...any) *Error {
	return &Error{Kind: ExecutionError, Msg: fmt.Sprintf(format, args...)}
}

func errorKind(err error) (ErrorKind, bool) {
	var e *Error
	if sterrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsSyntaxError(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == SyntaxError
}

func IsExecutionError(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == ExecutionError
}

// Describe formats err the way the command line driver reports it:
// "Syntax Error: ..." or "Execution Error: ...". Errors that did not come
// from the language pipeline are reported as execution errors.
func Describe(err error) string {
	kind, ok := errorKind(err)
	if !ok {
		kind = ExecutionError
	}
	return kind.String() + ": " + err.Error()
}
