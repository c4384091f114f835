package transformer

import (
	"github.com/t14raptor/go-fast/ast"

	"github.com/whit3rabbit/jsmix/internal/astutil"
)

/*
Control-Flow Restoration Overview:
----------------------------------
Flattening rewrites a straight-line function into a dispatch loop:

    var order = "3|1|4|0|2".split("|"), i = 0;
    while (true) {
        switch (order[i++]) {
            case "0": doE(); continue;
            case "1": doB(); continue;
            ...
        }
        break;
    }

This pass matches `while (true)` and `for (;;)` loops whose body's first
statement is a switch, and replaces the whole loop with the cases'
consequent statements concatenated in source order, dropping each case's
trailing break/continue dispatch step.

Source order is an approximation. Recovering the true order would require
solving the dispatch variable's data flow, which is out of scope; the
result is still far more readable than the loop. Every candidate
replacement is print-validated first, and a loop whose replacement cannot
be printed is left exactly as it was.
*/

// ControlFlowRestorer unflattens while(true)+switch dispatch loops.
type ControlFlowRestorer struct {
	// Restored counts unflattened loops. Failed counts loops whose
	// replacement did not validate and were left intact; those are not
	// reported as transformations.
	Restored int
	Failed   int
}

// NewControlFlowRestorer creates the pass with zeroed counters.
func NewControlFlowRestorer() *ControlFlowRestorer {
	return &ControlFlowRestorer{}
}

// Apply unflattens every matching dispatch loop in the tree.
func (p *ControlFlowRestorer) Apply(prog *ast.Program) {
	astutil.TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
		out := make([]ast.Statement, 0, len(list))
		for _, stmt := range list {
			sw, ok := p.matchDispatchLoop(stmt)
			if !ok {
				out = append(out, stmt)
				continue
			}
			flat := flattenCases(sw)
			if !p.validate(flat) {
				p.Failed++
				out = append(out, stmt)
				continue
			}
			out = append(out, flat...)
			p.Restored++
		}
		return out
	})
}

// matchDispatchLoop reports the switch driving a flattened loop, matching
// `while (true)` and `for (;;)` whose body starts with a switch statement.
func (p *ControlFlowRestorer) matchDispatchLoop(stmt ast.Statement) (*ast.SwitchStatement, bool) {
	var body *ast.Statement
	switch s := stmt.Stmt.(type) {
	case *ast.WhileStatement:
		if s.Test == nil || s.Test.Expr == nil {
			return nil, false
		}
		lit, ok := s.Test.Expr.(*ast.BooleanLiteral)
		if !ok || !lit.Value {
			return nil, false
		}
		body = s.Body
	case *ast.ForStatement:
		if s.Test != nil && s.Test.Expr != nil {
			return nil, false
		}
		body = s.Body
	default:
		return nil, false
	}
	if body == nil || body.Stmt == nil {
		return nil, false
	}

	first := body.Stmt
	if block, ok := first.(*ast.BlockStatement); ok {
		if len(block.List) == 0 {
			return nil, false
		}
		first = block.List[0].Stmt
	}
	sw, ok := first.(*ast.SwitchStatement)
	return sw, ok
}

// flattenCases concatenates the case bodies in source order, stripping each
// case's trailing dispatch step.
func flattenCases(sw *ast.SwitchStatement) []ast.Statement {
	var out []ast.Statement
	for i := range sw.Body {
		out = append(out, stripDispatchTail(sw.Body[i].Consequent)...)
	}
	return out
}

// stripDispatchTail drops trailing break/continue statements from one case
// body. Only the tail is dropped; a break in the middle of a case still
// means something and is kept.
func stripDispatchTail(list []ast.Statement) []ast.Statement {
	end := len(list)
	for end > 0 {
		switch list[end-1].Stmt.(type) {
		case *ast.BreakStatement, *ast.ContinueStatement:
			end--
		default:
			return list[:end]
		}
	}
	return list[:end]
}

// validate prints the candidate statements inside a throwaway block; a
// replacement that cannot be printed must never reach the tree.
func (p *ControlFlowRestorer) validate(stmts []ast.Statement) bool {
	wrapper := ast.Statement{Stmt: &ast.BlockStatement{List: stmts}}
	_, err := astutil.PrintStatement(wrapper)
	return err == nil
}
