package transformer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/t14raptor/go-fast/ast"

	"github.com/whit3rabbit/jsmix/internal/astutil"
)

// mustParse parses source that every test expects to be valid.
func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, warnings, err := astutil.Parse(src)
	require.NoError(t, err, "parsing test input")
	require.Empty(t, warnings, "test input should not need parser recovery")
	return prog
}

// mustPrint renders a tree that every test expects to be printable.
func mustPrint(t *testing.T, prog *ast.Program) string {
	t.Helper()
	out, err := astutil.Print(prog)
	require.NoError(t, err, "printing transformed tree")
	return out
}
