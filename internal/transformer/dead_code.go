package transformer

import (
	"github.com/t14raptor/go-fast/ast"

	"github.com/whit3rabbit/jsmix/internal/astutil"
)

/*
Dead-Code Elimination Overview:
-------------------------------
Obfuscators pad programs with opaque branches whose outcome is fixed:

    if (true) { real(); } else { junk(); }
    if (false) { junk(); }

This pass folds `if` statements whose test is a boolean literal. A true
test keeps the consequent, a false test keeps the alternate (or removes
the statement when there is none). Kept branches are spliced into the
surrounding list, unwrapping block bodies. Only literal booleans qualify;
anything needing evaluation (`!![]`, `1 == 1`) is out of scope here and
left for expression simplification to reduce first.

The statement-list traversal is bottom-up, so a fold that exposes another
literal-test `if` in the same run still gets folded.
*/

// DeadCodeEliminator folds if statements with literal boolean tests.
type DeadCodeEliminator struct {
	// Folded counts every if statement resolved by this pass.
	Folded int
}

// NewDeadCodeEliminator creates the pass with zeroed counters.
func NewDeadCodeEliminator() *DeadCodeEliminator {
	return &DeadCodeEliminator{}
}

// Apply folds every literal-test if statement in the tree.
func (p *DeadCodeEliminator) Apply(prog *ast.Program) {
	astutil.TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
		out := make([]ast.Statement, 0, len(list))
		for _, stmt := range list {
			ifStmt, ok := stmt.Stmt.(*ast.IfStatement)
			if !ok {
				out = append(out, stmt)
				continue
			}
			lit, ok := literalTest(ifStmt)
			if !ok {
				out = append(out, stmt)
				continue
			}
			if lit {
				out = append(out, branchStatements(ifStmt.Consequent)...)
			} else {
				out = append(out, branchStatements(ifStmt.Alternate)...)
			}
			p.Folded++
		}
		return out
	})
}

func literalTest(ifStmt *ast.IfStatement) (value, ok bool) {
	if ifStmt.Test == nil || ifStmt.Test.Expr == nil {
		return false, false
	}
	lit, isLit := ifStmt.Test.Expr.(*ast.BooleanLiteral)
	if !isLit {
		return false, false
	}
	return lit.Value, true
}

// branchStatements unwraps a branch into splice-ready statements: blocks
// yield their contents, a bare statement yields itself, a missing branch
// yields nothing.
func branchStatements(branch *ast.Statement) []ast.Statement {
	if branch == nil || branch.Stmt == nil {
		return nil
	}
	if block, ok := branch.Stmt.(*ast.BlockStatement); ok {
		return block.List
	}
	return []ast.Statement{*branch}
}
