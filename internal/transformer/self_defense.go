// Package transformer provides the AST rewrite passes of the deobfuscation
// pipeline. Each pass lives in its own file with its tests next to it.
package transformer

import (
	"strings"

	"github.com/t14raptor/go-fast/ast"

	"github.com/whit3rabbit/jsmix/internal/astutil"
)

/*
Self-Defense Removal Overview:
------------------------------
Commercial obfuscators plant anti-analysis traps in the emitted code:

- bare `debugger;` statements, sometimes thousands of them
- `setInterval(function(){ debugger; }, ...)` / setTimeout variants that
  re-arm the trap forever
- "self defense" functions that stringify themselves via toString and
  crawl `constructor` chains to detect beautified or instrumented copies

None of these carry program semantics, so this pass always runs, before
anything else touches the tree. The toString/constructor detector matches
on the printed form of whole function declarations; co-occurrence of both
substrings in one function is accepted as a trap signature.

Timer traps are flagged in a read-only pre-scan. The statement-list walk
is bottom-up, so by the time the outer list is offered for rewriting the
callback body has already lost its debugger statement; the pre-scan sees
the intact callback and marks the whole timer statement for deletion.
*/

// SelfDefenseRemover strips anti-debugging and anti-tampering constructs.
type SelfDefenseRemover struct {
	// Removed counts every statement dropped by this pass.
	Removed int
}

// NewSelfDefenseRemover creates the pass with zeroed counters.
func NewSelfDefenseRemover() *SelfDefenseRemover {
	return &SelfDefenseRemover{}
}

// Apply removes self-defense constructs everywhere in the tree.
func (p *SelfDefenseRemover) Apply(prog *ast.Program) {
	flagged := collectTimerTraps(prog)
	astutil.TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
		out := list[:0:0]
		for _, stmt := range list {
			if _, ok := flagged[stmt.Stmt]; ok {
				p.Removed++
				continue
			}
			if p.isSelfDefense(stmt) {
				p.Removed++
				continue
			}
			out = append(out, stmt)
		}
		return out
	})
}

// collectTimerTraps records every timer-scheduling statement wrapping a
// debugger callback before any mutation happens. The statements are keyed
// by their node pointers, which survive list snapshots.
func collectTimerTraps(prog *ast.Program) map[ast.Stmt]struct{} {
	flagged := make(map[ast.Stmt]struct{})
	astutil.TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
		for _, stmt := range list {
			if es, ok := stmt.Stmt.(*ast.ExpressionStatement); ok && isDebuggerTimerCall(es.Expression) {
				flagged[stmt.Stmt] = struct{}{}
			}
		}
		return list
	})
	return flagged
}

func (p *SelfDefenseRemover) isSelfDefense(stmt ast.Statement) bool {
	switch stmt.Stmt.(type) {
	case *ast.DebuggerStatement:
		return true
	case *ast.FunctionDeclaration:
		return p.isTamperTrap(stmt)
	default:
		return false
	}
}

// isDebuggerTimerCall matches setInterval/setTimeout calls whose first
// argument is an inline function with a top-level debugger statement.
func isDebuggerTimerCall(expr *ast.Expression) bool {
	if expr == nil {
		return false
	}
	call, ok := expr.Expr.(*ast.CallExpression)
	if !ok || call.Callee == nil || len(call.ArgumentList) == 0 {
		return false
	}
	callee, ok := call.Callee.Expr.(*ast.Identifier)
	if !ok {
		return false
	}
	if callee.Name != "setInterval" && callee.Name != "setTimeout" {
		return false
	}
	fn, ok := call.ArgumentList[0].Expr.(*ast.FunctionLiteral)
	if !ok || fn.Body == nil {
		return false
	}
	for _, inner := range fn.Body.List {
		if _, ok := inner.Stmt.(*ast.DebuggerStatement); ok {
			return true
		}
	}
	return false
}

// isTamperTrap matches function declarations whose printed form references
// both toString and constructor. Printer failures skip the statement.
func (p *SelfDefenseRemover) isTamperTrap(stmt ast.Statement) bool {
	text, err := astutil.PrintStatement(stmt)
	if err != nil {
		return false
	}
	return strings.Contains(text, "toString") && strings.Contains(text, "constructor")
}
