// Package astutil wraps the external JavaScript parser and printer behind a
// small adapter so transformation passes never depend on them directly.
//
// The adapter owns the two awkward contracts in this project:
//
//  1. Best-effort parsing: obfuscated payloads are frequently truncated or
//     padded with junk, so Parse retries with a salvaged copy of the input
//     before giving up.
//  2. Mutation-tolerant traversal: passes splice, delete and replace
//     statements while the tree is being walked. TransformStatementLists
//     hands every rewrite a snapshot of the list it is editing, so
//     structural edits cannot corrupt iteration order.
package astutil

import (
	"fmt"
	"strings"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/generator"
	"github.com/t14raptor/go-fast/parser"
)

// ParseError marks input that the parser rejected even after all recovery
// attempts. Callers surface it as a failed run, never as a panic.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

// Parse parses JavaScript source text into an owned, mutable tree.
//
// On a syntax error it retries with progressively salvaged copies of the
// input: first with byte-order marks and zero-width characters stripped,
// then with the unparsable trailing fragment after the last statement
// terminator dropped. The returned warnings describe any salvage that was
// applied so the caller can report it.
func Parse(src string) (*ast.Program, []string, error) {
	prog, err := parser.ParseFile(src)
	if err == nil {
		return prog, nil, nil
	}

	var warnings []string

	cleaned := stripJunk(src)
	if cleaned != src {
		if prog, cerr := parser.ParseFile(cleaned); cerr == nil {
			warnings = append(warnings, "parser recovery: stripped byte-order mark / zero-width characters")
			return prog, warnings, nil
		}
	}

	if trimmed, ok := trimTrailingFragment(cleaned); ok {
		if prog, terr := parser.ParseFile(trimmed); terr == nil {
			warnings = append(warnings, "parser recovery: dropped unparsable trailing fragment")
			return prog, warnings, nil
		}
	}

	return nil, nil, &ParseError{Msg: fmt.Sprintf("parse failed even with recovery: %v", err)}
}

// Print renders the (possibly mutated) tree back to source text.
//
// The generator panics on trees it cannot render; the panic is converted to
// an error here so that one broken rewrite never takes down a whole run.
func Print(prog *ast.Program) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("printer failure: %v", r)
		}
	}()
	return generator.Generate(prog), nil
}

// PrintStatement renders a single statement by wrapping it in a throwaway
// program. Used by the heuristic detectors that match on printed form.
func PrintStatement(stmt ast.Statement) (string, error) {
	return Print(&ast.Program{Body: []ast.Statement{stmt}})
}

// stripJunk removes a UTF-8 BOM and zero-width characters that obfuscators
// (and some CDNs) prepend or sprinkle into payloads.
func stripJunk(src string) string {
	src = strings.TrimPrefix(src, "\uFEFF")
	replacer := strings.NewReplacer("\u200B", "", "\u200C", "", "\u200D", "", "\uFEFF", "")
	return replacer.Replace(src)
}

// trimTrailingFragment cuts the input after the last statement terminator,
// on the theory that a truncated download left a dangling fragment at the
// end. Reports false when there is nothing sensible to cut.
func trimTrailingFragment(src string) (string, bool) {
	idx := strings.LastIndexAny(src, ";}")
	if idx <= 0 || idx == len(src)-1 {
		return "", false
	}
	trimmed := src[:idx+1]
	if strings.TrimSpace(trimmed) == "" {
		return "", false
	}
	return trimmed, true
}

// ListTransform rewrites one statement list. It receives a snapshot of the
// list and returns the replacement; returning the input unchanged is a
// no-op. Implementations must not retain the slice.
type ListTransform func(list []ast.Statement) []ast.Statement

// TransformStatementLists applies fn to every statement list in the tree:
// the program body, block bodies, switch case consequents, and the bodies of
// function declarations and function literals reachable through
// expressions. Lists are visited bottom-up (children before their containing
// list) so a rewrite always sees fully-transformed statements, and each fn
// call operates on a private snapshot.
//
// Single-statement positions (if branches, loop bodies) are treated as
// one-element lists; when a rewrite returns a different shape the statement
// is wrapped in a block so the tree stays well-formed.
func TransformStatementLists(prog *ast.Program, fn ListTransform) {
	prog.Body = transformList(prog.Body, fn)
}

func transformList(list []ast.Statement, fn ListTransform) []ast.Statement {
	snapshot := make([]ast.Statement, len(list))
	copy(snapshot, list)
	for i := range snapshot {
		transformInStatement(&snapshot[i], fn)
	}
	return fn(snapshot)
}

func transformInStatement(stmt *ast.Statement, fn ListTransform) {
	if stmt == nil || stmt.Stmt == nil {
		return
	}

	switch s := stmt.Stmt.(type) {
	case *ast.BlockStatement:
		s.List = transformList(s.List, fn)
	case *ast.FunctionDeclaration:
		if s.Function != nil && s.Function.Body != nil {
			s.Function.Body.List = transformList(s.Function.Body.List, fn)
		}
	case *ast.IfStatement:
		transformInExpression(s.Test, fn)
		transformBranch(s.Consequent, fn)
		transformBranch(s.Alternate, fn)
	case *ast.WhileStatement:
		transformInExpression(s.Test, fn)
		transformBranch(s.Body, fn)
	case *ast.DoWhileStatement:
		transformInExpression(s.Test, fn)
		transformBranch(s.Body, fn)
	case *ast.ForStatement:
		transformInExpression(s.Test, fn)
		transformInExpression(s.Update, fn)
		transformBranch(s.Body, fn)
	case *ast.ForInStatement:
		transformInExpression(s.Source, fn)
		transformBranch(s.Body, fn)
	case *ast.SwitchStatement:
		transformInExpression(s.Discriminant, fn)
		for i := range s.Body {
			s.Body[i].Consequent = transformList(s.Body[i].Consequent, fn)
		}
	case *ast.TryStatement:
		if s.Body != nil {
			s.Body.List = transformList(s.Body.List, fn)
		}
		if s.Catch != nil && s.Catch.Body != nil {
			s.Catch.Body.List = transformList(s.Catch.Body.List, fn)
		}
		if s.Finally != nil {
			s.Finally.List = transformList(s.Finally.List, fn)
		}
	case *ast.ExpressionStatement:
		transformInExpression(s.Expression, fn)
	case *ast.ReturnStatement:
		transformInExpression(s.Argument, fn)
	case *ast.VariableDeclaration:
		for i := range s.List {
			transformInExpression(s.List[i].Initializer, fn)
		}
	}
}

// transformBranch handles single-statement child positions. The child is
// descended into first, then offered to fn as a one-element list.
func transformBranch(child *ast.Statement, fn ListTransform) {
	if child == nil || child.Stmt == nil {
		return
	}
	transformInStatement(child, fn)
	if _, ok := child.Stmt.(*ast.BlockStatement); ok {
		// Block bodies were already handled as real lists.
		return
	}
	res := fn([]ast.Statement{*child})
	if len(res) == 1 {
		*child = res[0]
		return
	}
	child.Stmt = &ast.BlockStatement{List: res}
}

// transformInExpression descends into expressions only far enough to reach
// nested function literal bodies (IIFEs, callbacks), which hold statement
// lists of their own. Arrow function bodies are left alone; the obfuscator
// families handled here emit plain function expressions.
func transformInExpression(expr *ast.Expression, fn ListTransform) {
	if expr == nil || expr.Expr == nil {
		return
	}

	switch e := expr.Expr.(type) {
	case *ast.FunctionLiteral:
		if e.Body != nil {
			e.Body.List = transformList(e.Body.List, fn)
		}
	case *ast.CallExpression:
		transformInExpression(e.Callee, fn)
		for i := range e.ArgumentList {
			transformInExpression(&e.ArgumentList[i], fn)
		}
	case *ast.AssignExpression:
		transformInExpression(e.Left, fn)
		transformInExpression(e.Right, fn)
	case *ast.BinaryExpression:
		transformInExpression(e.Left, fn)
		transformInExpression(e.Right, fn)
	case *ast.UnaryExpression:
		transformInExpression(e.Operand, fn)
	case *ast.ConditionalExpression:
		transformInExpression(e.Test, fn)
		transformInExpression(e.Consequent, fn)
		transformInExpression(e.Alternate, fn)
	case *ast.SequenceExpression:
		for i := range e.Sequence {
			transformInExpression(&e.Sequence[i], fn)
		}
	case *ast.MemberExpression:
		transformInExpression(e.Object, fn)
	case *ast.ArrayLiteral:
		for i := range e.Value {
			transformInExpression(&e.Value[i], fn)
		}
	case *ast.ObjectLiteral:
		for i := range e.Value {
			if prop, ok := e.Value[i].Prop.(*ast.PropertyKeyed); ok && prop.Value != nil {
				transformInExpression(prop.Value, fn)
			}
		}
	}
}
