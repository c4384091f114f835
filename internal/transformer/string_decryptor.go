package transformer

import (
	"strings"

	"github.com/t14raptor/go-fast/ast"

	"github.com/whit3rabbit/jsmix/internal/astutil"
)

/*
String Decryption Overview:
---------------------------
String-array obfuscators route every literal through a decoder function:

    function _0x3f2a(i, k) { ... charCodeAt ... fromCharCode ... split ... }
    console.log(_0x3f2a(0x12, 'xK9!'));

This pass works in two phases so the detector never races the rewrite:

 1. ScanRegistry walks the untouched tree and records the names of function
    declarations whose printed body shows the decoder fingerprint (a
    char-code read, a char-code-to-string call and a split call together).
 2. Apply replaces every call whose callee is a bare identifier found in
    the registry with a placeholder string literal.

Matching is structural only; the decoder is never executed, so the real
plaintext is unknown. Callers get a warning saying exactly that whenever
the registry is non-empty.
*/

// DecoderFingerprint lists the printed-form markers that must all appear in
// a function body before it is treated as a string decoder.
var DecoderFingerprint = []string{"charCodeAt", "fromCharCode", "split"}

// DefaultPlaceholder replaces decoder call sites when no placeholder is
// configured.
const DefaultPlaceholder = "decrypted_string"

// DecoderRegistry holds the decoder function names found by a scan. It is
// plain data passed between the two phases, never global state.
type DecoderRegistry map[string]struct{}

// ScanRegistry collects decoder function names from the tree. Run it before
// any pass mutates the program so declarations removed later are still
// seen. Functions whose body cannot be printed are skipped.
func ScanRegistry(prog *ast.Program) DecoderRegistry {
	reg := make(DecoderRegistry)
	astutil.TransformStatementLists(prog, func(list []ast.Statement) []ast.Statement {
		for _, stmt := range list {
			decl, ok := stmt.Stmt.(*ast.FunctionDeclaration)
			if !ok || decl.Function == nil || decl.Function.Name == nil {
				continue
			}
			text, err := astutil.PrintStatement(stmt)
			if err != nil {
				continue
			}
			if hasDecoderFingerprint(text) {
				reg[decl.Function.Name.Name] = struct{}{}
			}
		}
		return list
	})
	return reg
}

func hasDecoderFingerprint(text string) bool {
	for _, marker := range DecoderFingerprint {
		if !strings.Contains(text, marker) {
			return false
		}
	}
	return true
}

// StringDecryptor replaces decoder call sites with placeholder literals.
type StringDecryptor struct {
	ast.NoopVisitor

	registry    DecoderRegistry
	placeholder string

	// Replaced counts rewritten call sites.
	Replaced int
}

// NewStringDecryptor creates the pass over a previously scanned registry.
// An empty placeholder falls back to DefaultPlaceholder.
func NewStringDecryptor(registry DecoderRegistry, placeholder string) *StringDecryptor {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	p := &StringDecryptor{registry: registry, placeholder: placeholder}
	p.V = p
	return p
}

// Apply rewrites every registered decoder call in the tree. Returns any
// warnings the caller should surface.
func (p *StringDecryptor) Apply(prog *ast.Program) []string {
	if len(p.registry) == 0 {
		return nil
	}
	prog.VisitWith(p)
	return []string{
		"string decryption is heuristic: decoder calls were replaced with placeholders, not executed",
	}
}

// VisitExpression rewrites matching calls bottom-up.
func (p *StringDecryptor) VisitExpression(n *ast.Expression) {
	n.VisitChildrenWith(p)

	call, ok := n.Expr.(*ast.CallExpression)
	if !ok || call.Callee == nil {
		return
	}
	callee, ok := call.Callee.Expr.(*ast.Identifier)
	if !ok {
		return
	}
	if _, found := p.registry[callee.Name]; !found {
		return
	}
	n.Expr = &ast.StringLiteral{Value: p.placeholder}
	p.Replaced++
}
