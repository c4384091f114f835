package transformer

import (
	"github.com/t14raptor/go-fast/ast"

	"github.com/whit3rabbit/jsmix/internal/astutil"
	"github.com/whit3rabbit/jsmix/internal/renamer"
)

/*
Identifier Normalization Overview:
----------------------------------
After the structural passes the code still reads like line noise:

    var _0x1a2b3c = _0x4d5e6f(_0x1a2b3c);

This pass renames obfuscator-pattern identifiers to short stable names
(v1, v2, ... and f1, f2, ...) using a shared rename map, so the same
obfuscated name gets the same readable name across files in one run and,
when the map is persisted, across runs.

Names are collected from visible declaration sites only: variable
declarator targets and function declaration names. A name never seen at a
declaration site is never renamed, even where it is used, so references to
globals or properties that merely look obfuscated stay untouched.
Function parameters are also left alone for the same reason. Consistency
over coverage.
*/

// IdentifierRenamer rewrites obfuscated identifiers to readable names.
type IdentifierRenamer struct {
	renamer *renamer.Renamer

	// collected maps each declaration-site name to its kind.
	collected map[string]renamer.Kind

	// Renamed counts unique names rewritten in this run.
	Renamed int
}

// NewIdentifierRenamer creates the pass over a shared rename map.
func NewIdentifierRenamer(r *renamer.Renamer) *IdentifierRenamer {
	return &IdentifierRenamer{
		renamer:   r,
		collected: make(map[string]renamer.Kind),
	}
}

// Apply collects declaration-site names, then rewrites every occurrence.
func (p *IdentifierRenamer) Apply(prog *ast.Program) {
	p.collect(prog)
	if len(p.collected) == 0 {
		return
	}
	p.rewrite(prog)
	p.Renamed = len(p.collected)
}

func (p *IdentifierRenamer) collect(prog *ast.Program) {
	astutil.TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
		for _, stmt := range list {
			switch s := stmt.Stmt.(type) {
			case *ast.VariableDeclaration:
				for i := range s.List {
					if s.List[i].Target == nil {
						continue
					}
					id, ok := s.List[i].Target.Target.(*ast.Identifier)
					if !ok {
						continue
					}
					if renamer.IsObfuscated(id.Name) {
						p.collected[id.Name] = renamer.KindVariable
					}
				}
			case *ast.FunctionDeclaration:
				if s.Function == nil || s.Function.Name == nil {
					continue
				}
				if name := s.Function.Name.Name; renamer.IsObfuscated(name) {
					p.collected[name] = renamer.KindFunction
				}
			}
		}
		return list
	})
}

func (p *IdentifierRenamer) rewrite(prog *ast.Program) {
	v := &identifierRewriter{pass: p}
	v.V = v
	prog.VisitWith(v)

	// Declaration names sit outside the expression walk; fix them here.
	astutil.TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
		for _, stmt := range list {
			switch s := stmt.Stmt.(type) {
			case *ast.VariableDeclaration:
				for i := range s.List {
					if s.List[i].Target == nil {
						continue
					}
					if id, ok := s.List[i].Target.Target.(*ast.Identifier); ok {
						p.maybeRename(id)
					}
				}
			case *ast.FunctionDeclaration:
				if s.Function != nil && s.Function.Name != nil {
					p.maybeRename(s.Function.Name)
				}
			}
		}
		return list
	})
}

func (p *IdentifierRenamer) maybeRename(id *ast.Identifier) {
	kind, ok := p.collected[id.Name]
	if !ok {
		return
	}
	id.Name = p.renamer.Rename(id.Name, kind)
}

// identifierRewriter renames identifier expressions in place. Member
// property identifiers are not Expression nodes, so `obj._0x12ab` style
// property names are naturally left alone.
type identifierRewriter struct {
	ast.NoopVisitor
	pass *IdentifierRenamer
}

func (v *identifierRewriter) VisitExpression(n *ast.Expression) {
	n.VisitChildrenWith(v)
	if id, ok := n.Expr.(*ast.Identifier); ok {
		v.pass.maybeRename(id)
	}
}
