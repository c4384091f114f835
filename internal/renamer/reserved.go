package renamer

// reservedWords are JavaScript keywords, future reserved words and a few
// ever-present globals. Generated names are checked against this set so a
// rename can never shadow one.
var reservedWords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
	"continue": {}, "debugger": {}, "default": {}, "delete": {}, "do": {},
	"else": {}, "enum": {}, "export": {}, "extends": {}, "false": {},
	"finally": {}, "for": {}, "function": {}, "if": {}, "import": {},
	"in": {}, "instanceof": {}, "new": {}, "null": {}, "return": {},
	"super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {},
	"with": {}, "yield": {}, "let": {}, "static": {}, "await": {},
	"implements": {}, "interface": {}, "package": {}, "private": {},
	"protected": {}, "public": {},

	"arguments": {}, "eval": {}, "undefined": {}, "NaN": {}, "Infinity": {},
	"globalThis": {}, "window": {}, "document": {}, "console": {},
}

// IsReservedWord reports whether name may not be used as a generated
// identifier.
func IsReservedWord(name string) bool {
	_, ok := reservedWords[name]
	return ok
}
