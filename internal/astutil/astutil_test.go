package astutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/t14raptor/go-fast/ast"
)

func TestParse(t *testing.T) {
	t.Run("valid source", func(t *testing.T) {
		prog, warnings, err := Parse("var x = 1;")
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.NotNil(t, prog)
		assert.Len(t, prog.Body, 1)
	})

	t.Run("garbage fails with ParseError", func(t *testing.T) {
		_, _, err := Parse("var var var ((({{{")
		require.Error(t, err)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("BOM prefixed source recovers", func(t *testing.T) {
		prog, _, err := Parse("\uFEFFvar x = 1;")
		if err != nil {
			// Some parser builds accept the BOM outright; either way the
			// input must not be rejected.
			t.Fatalf("BOM input should parse: %v", err)
		}
		assert.Len(t, prog.Body, 1)
	})

	t.Run("zero-width characters recover", func(t *testing.T) {
		prog, _, err := Parse("var x\u200B = 1;\u200Duse(x);")
		if err != nil {
			t.Fatalf("zero-width input should parse: %v", err)
		}
		assert.Len(t, prog.Body, 2)
	})
}

func TestPrintRoundTrip(t *testing.T) {
	src := `function add(a, b) { return a + b; } var r = add(1, 2);`
	prog, _, err := Parse(src)
	require.NoError(t, err)

	out, err := Print(prog)
	require.NoError(t, err)
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "return")

	// The printed form must itself parse.
	again, _, err := Parse(out)
	require.NoError(t, err)
	assert.Len(t, again.Body, len(prog.Body))
}

func TestPrintStatement(t *testing.T) {
	prog, _, err := Parse("var answer = 42;")
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	text, err := PrintStatement(prog.Body[0])
	require.NoError(t, err)
	assert.Contains(t, text, "answer")
	assert.Contains(t, text, "42")
}

func TestTransformStatementLists(t *testing.T) {
	// dropExpressionCalls removes every expression statement whose printed
	// form contains the marker, counting list visits.
	countLists := func(visited *int, marker string) ListTransform {
		return func(list []ast.Statement) []ast.Statement {
			*visited++
			out := list[:0:0]
			for _, stmt := range list {
				text, err := PrintStatement(stmt)
				if err == nil && strings.Contains(text, marker) {
					if _, ok := stmt.Stmt.(*ast.ExpressionStatement); ok {
						continue
					}
				}
				out = append(out, stmt)
			}
			return out
		}
	}

	t.Run("visits nested lists", func(t *testing.T) {
		src := `
drop();
function outer() {
    drop();
    if (cond) { drop(); } else drop();
    while (go) { drop(); }
    try { drop(); } catch (e) { drop(); } finally { drop(); }
    switch (k) { case 1: drop(); }
}
var fn = function() { drop(); };
keep();
`
		prog, _, err := Parse(src)
		require.NoError(t, err)

		visited := 0
		TransformStatementLists(prog, countLists(&visited, "drop"))

		assert.Greater(t, visited, 5, "nested lists should each be visited")

		out, err := Print(prog)
		require.NoError(t, err)
		assert.NotContains(t, out, "drop")
		assert.Contains(t, out, "keep")
	})

	t.Run("removal while iterating is safe", func(t *testing.T) {
		src := "a(); drop(); b(); drop(); c();"
		prog, _, err := Parse(src)
		require.NoError(t, err)

		visited := 0
		TransformStatementLists(prog, countLists(&visited, "drop"))

		out, err := Print(prog)
		require.NoError(t, err)
		assert.NotContains(t, out, "drop")
		for _, kept := range []string{"a", "b", "c"} {
			assert.Contains(t, out, kept)
		}
	})

	t.Run("splice grows the list", func(t *testing.T) {
		src := "one();"
		prog, _, err := Parse(src)
		require.NoError(t, err)

		extra, _, err := Parse("two();")
		require.NoError(t, err)

		TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
			return append(list, extra.Body...)
		})

		out, err := Print(prog)
		require.NoError(t, err)
		assert.Contains(t, out, "one")
		assert.Contains(t, out, "two")
	})

	t.Run("single statement branch wrapped when split", func(t *testing.T) {
		src := "if (cond) lone();"
		prog, _, err := Parse(src)
		require.NoError(t, err)

		extra, _, err := Parse("second();")
		require.NoError(t, err)

		TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
			if len(list) == 1 {
				if _, ok := list[0].Stmt.(*ast.ExpressionStatement); ok {
					return append([]ast.Statement{list[0]}, extra.Body...)
				}
			}
			return list
		})

		out, err := Print(prog)
		require.NoError(t, err)
		assert.Contains(t, out, "lone")
		assert.Contains(t, out, "second")
		// Still a single well-formed if statement.
		require.Len(t, prog.Body, 1)
		ifStmt, ok := prog.Body[0].Stmt.(*ast.IfStatement)
		require.True(t, ok)
		_, ok = ifStmt.Consequent.Stmt.(*ast.BlockStatement)
		assert.True(t, ok, "split branch should be wrapped in a block")
	})
}
