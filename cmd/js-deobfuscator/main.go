/*
JavaScript Deobfuscator (Entry Point)

Reverses common obfuscation idioms in JavaScript source: anti-debugging
traps, string-array decoders, flattened control flow, opaque constant
branches and arithmetic noise, and machine-generated identifier names.
*/
package main

import (
	"github.com/whit3rabbit/jsmix/cmd/js-deobfuscator/cmd"
)

func main() {
	cmd.Execute()
}
