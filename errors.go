package ember

import (
	"fmt"

	"github.com/pkg/errors"
)

// ExitCode maps an error returned by Compile to the driver's documented
// exit status: 1 for a reported lex/parse/type failure, 2 for I/O, 3 for
// an internal compiler error. A nil error means success (0).
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.As(err, &IOError{}):
		return 2
	case errors.As(err, &InternalError{}):
		return 3
	default:
		return 1
	}
}

// DiagnosedError is returned by Compile when the Diagnostics sink
// collected at least one error; the caller is expected to print
// diag.Strings() rather than this error's own Error() text.
type DiagnosedError struct {
	Count int
}

func (e *DiagnosedError) Error() string {
	return fmt.Sprintf("compilation failed with %d diagnostic(s)", e.Count)
}

// IOError wraps a failure to read source or write output. Source
// unreadable or output unwritable is always fatal (exit code 2).
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e IOError) Error() string {
	return errors.Wrapf(e.Err, "%s %s", e.Op, e.Path).Error()
}

func (e IOError) Unwrap() error { return e.Err }

// InternalError represents a CodegenError or other "should not occur after
// a clean type check" condition: an impossible AST shape reaching the
// generator. It is always an internal-compiler-error (exit code 3), wrapped
// with github.com/pkg/errors so the driver can print a stack trace.
type InternalError struct {
	Where string
	Err   error
}

func (e InternalError) Error() string {
	return errors.Wrapf(e.Err, "internal compiler error in %s", e.Where).Error()
}

func (e InternalError) Unwrap() error { return e.Err }

func newInternalError(where string, format string, args ...interface{}) error {
	return InternalError{Where: where, Err: errors.Errorf(format, args...)}
}
