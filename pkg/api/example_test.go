package api_test

import (
	"fmt"
	"log"

	"github.com/whit3rabbit/jsmix/pkg/api"
)

// ExampleDeobfuscator_LookupOriginalName shows how to trace a generated
// name back to the obfuscated original after a run.
func ExampleDeobfuscator_LookupOriginalName() {
	deob, err := api.NewDeobfuscator(api.Options{Silent: true})
	if err != nil {
		log.Fatalf("failed to create deobfuscator: %v", err)
	}

	deob.DeobfuscateCode(`var _0x4f2a = "payload"; send(_0x4f2a);`)

	original, err := deob.LookupOriginalName("v1")
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	fmt.Println(original)
	// Output: _0x4f2a
}
