// Package renamer handles identifier normalization and rename-map
// persistence.
//
// It is the inverse of a scrambler: obfuscated names like `_0x3f2a1b` are
// mapped to stable sequential readable names (`v1`, `v2`, ... for
// variables, `f1`, `f2`, ... for functions). The forward and reverse maps
// can be persisted to disk so a later run, or a reverse lookup, sees the
// same assignments.
package renamer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

const (
	// Context serialization version, checked on load.
	contextVersion = "jsmix-rename-v1.0"

	// ContextFileName is the map file written under the context directory.
	ContextFileName = "rename.map"
)

// Kind selects the prefix a normalized name gets.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
)

// obfuscatedName matches the naming patterns obfuscators emit: hex-suffixed
// underscore names and long pure-hex identifiers with underscore runs.
var obfuscatedName = regexp.MustCompile(`^_+0x[0-9a-fA-F]+$|^_0x[0-9a-fA-F]+_?$|^__+[0-9a-fA-F]{4,}$`)

// renamerState holds the persisted data. Exported fields for gob.
type renamerState struct {
	Version     string
	NameMap     map[string]string // obfuscated -> readable
	ReverseMap  map[string]string // readable -> obfuscated
	VarCounter  int
	FuncCounter int
}

// Renamer manages the forward and reverse rename maps.
type Renamer struct {
	nameMap     map[string]string
	reverseMap  map[string]string
	varCounter  int
	funcCounter int

	mu sync.RWMutex
}

// New creates an empty renamer.
func New() *Renamer {
	return &Renamer{
		nameMap:    make(map[string]string),
		reverseMap: make(map[string]string),
	}
}

// IsObfuscated reports whether a name matches the obfuscator naming
// patterns this pass targets.
func IsObfuscated(name string) bool {
	return obfuscatedName.MatchString(name)
}

// Rename returns the readable name for an obfuscated identifier, assigning
// a new one on first sight. The same input always maps to the same output
// for the lifetime of the map, including across Save/Load.
func (r *Renamer) Rename(name string, kind Kind) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if readable, ok := r.nameMap[name]; ok {
		return readable
	}

	var readable string
	for {
		switch kind {
		case KindFunction:
			r.funcCounter++
			readable = fmt.Sprintf("f%d", r.funcCounter)
		default:
			r.varCounter++
			readable = fmt.Sprintf("v%d", r.varCounter)
		}
		if _, taken := r.reverseMap[readable]; !taken && !IsReservedWord(readable) {
			break
		}
	}

	r.nameMap[name] = readable
	r.reverseMap[readable] = name
	return readable
}

// Lookup returns the readable name already assigned to an obfuscated
// identifier, without assigning one.
func (r *Renamer) Lookup(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	readable, ok := r.nameMap[name]
	return readable, ok
}

// ReverseLookup returns the obfuscated identifier behind a readable name.
// This is what the whatis command answers from.
func (r *Renamer) ReverseLookup(readable string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	original, ok := r.reverseMap[readable]
	return original, ok
}

// Count returns the number of unique names assigned so far.
func (r *Renamer) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameMap)
}

// SaveState writes the rename maps to dirPath/ContextFileName, creating the
// directory if needed.
func (r *Renamer) SaveState(dirPath string) error {
	r.mu.RLock()
	state := renamerState{
		Version:     contextVersion,
		NameMap:     r.nameMap,
		ReverseMap:  r.reverseMap,
		VarCounter:  r.varCounter,
		FuncCounter: r.funcCounter,
	}
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&state); err != nil {
		return fmt.Errorf("encoding rename context: %w", err)
	}
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("creating context directory: %w", err)
	}
	target := filepath.Join(dirPath, ContextFileName)
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing rename context: %w", err)
	}
	return nil
}

// LoadState restores the rename maps from dirPath/ContextFileName. A
// missing file is not an error; the renamer just starts empty.
func (r *Renamer) LoadState(dirPath string) error {
	target := filepath.Join(dirPath, ContextFileName)
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading rename context: %w", err)
	}

	var state renamerState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("decoding rename context: %w", err)
	}
	if state.Version != contextVersion {
		return fmt.Errorf("rename context version mismatch: got %q, want %q", state.Version, contextVersion)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nameMap = state.NameMap
	r.reverseMap = state.ReverseMap
	r.varCounter = state.VarCounter
	r.funcCounter = state.FuncCounter
	if r.nameMap == nil {
		r.nameMap = make(map[string]string)
	}
	if r.reverseMap == nil {
		r.reverseMap = make(map[string]string)
	}
	return nil
}
