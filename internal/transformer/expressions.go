package transformer

import (
	"github.com/t14raptor/go-fast/ast"
)

/*
Expression Simplification Overview:
-----------------------------------
Obfuscators split constants into arithmetic noise:

    var timeout = 0x3e8 * 0x2 + 0x1f4 - 0x64;

This pass folds binary `+ - * /` over two numeric literals into a single
numeric literal. Folding is bottom-up, so nested trees collapse in one
run: (2 * 3) + 4 folds the product first, then sees 6 + 4.

Division follows IEEE-754: x/0 folds to Infinity (or NaN for 0/0),
matching what the expression would evaluate to in a JS engine. It is
folded like any other result, never skipped and never an error.
*/

// ExpressionSimplifier folds constant numeric arithmetic.
type ExpressionSimplifier struct {
	ast.NoopVisitor

	// Folded counts every binary operation reduced to a literal.
	Folded int
}

// NewExpressionSimplifier creates the pass with zeroed counters.
func NewExpressionSimplifier() *ExpressionSimplifier {
	p := &ExpressionSimplifier{}
	p.V = p
	return p
}

// Apply folds constant expressions everywhere in the tree.
func (p *ExpressionSimplifier) Apply(prog *ast.Program) {
	prog.VisitWith(p)
}

// VisitExpression folds children first, then the node itself.
func (p *ExpressionSimplifier) VisitExpression(n *ast.Expression) {
	n.VisitChildrenWith(p)

	bin, ok := n.Expr.(*ast.BinaryExpression)
	if !ok {
		return
	}
	left, ok := numberOperand(bin.Left)
	if !ok {
		return
	}
	right, ok := numberOperand(bin.Right)
	if !ok {
		return
	}

	var result float64
	switch bin.Operator.String() {
	case "+":
		result = left + right
	case "-":
		result = left - right
	case "*":
		result = left * right
	case "/":
		result = left / right
	default:
		return
	}

	n.Expr = &ast.NumberLiteral{Value: result}
	p.Folded++
}

func numberOperand(expr *ast.Expression) (float64, bool) {
	if expr == nil || expr.Expr == nil {
		return 0, false
	}
	lit, ok := expr.Expr.(*ast.NumberLiteral)
	if !ok {
		return 0, false
	}
	return lit.Value, true
}
