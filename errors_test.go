package ember

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCodeMapping(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(&DiagnosedError{Count: 2}))
	require.Equal(t, 2, ExitCode(IOError{Op: "reading", Path: "x.ember", Err: os.ErrNotExist}))
	require.Equal(t, 3, ExitCode(newInternalError("codegen", "unreachable AST shape")))
}

func TestIOErrorUnwrapsUnderlyingError(t *testing.T) {
	err := IOError{Op: "reading", Path: "x.ember", Err: os.ErrNotExist}
	require.True(t, errors.Is(err, os.ErrNotExist))
	require.Contains(t, err.Error(), "x.ember")
}

func TestInternalErrorMessageNamesStage(t *testing.T) {
	err := newInternalError("codegen", "no main found")
	require.Contains(t, err.Error(), "codegen")
	require.Contains(t, err.Error(), "no main found")
}
