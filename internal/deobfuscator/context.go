package deobfuscator

import (
	"fmt"
	"path/filepath"

	"github.com/whit3rabbit/jsmix/internal/config"
	"github.com/whit3rabbit/jsmix/internal/renamer"
)

// Context holds the state shared across files and passes within one
// deobfuscation session, primarily the rename map. The map is the only
// cross-run state the tool carries; everything else is created fresh per
// Deobfuscate call.
type Context struct {
	Config  *config.Config
	Renamer *renamer.Renamer
	Silent  bool // Inherited from config for convenience
}

// NewContext creates a session context from the loaded configuration.
func NewContext(cfg *config.Config) (*Context, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	return &Context{
		Config:  cfg,
		Renamer: renamer.New(),
		Silent:  cfg.Silent,
	}, nil
}

// ContextDir returns the directory the rename map is persisted under.
func (octx *Context) ContextDir(baseDir string) string {
	return filepath.Join(baseDir, "context")
}

// Load restores a previously saved rename map from baseDir. A missing map
// file is not an error; the session just starts fresh.
func (octx *Context) Load(baseDir string) error {
	if err := octx.Renamer.LoadState(octx.ContextDir(baseDir)); err != nil {
		return fmt.Errorf("loading rename context: %w", err)
	}
	if !octx.Silent && octx.Renamer.Count() > 0 {
		config.PrintInfo("Info: Loaded rename context with %d entries.\n", octx.Renamer.Count())
	}
	return nil
}

// Save persists the rename map under baseDir so whatis lookups and later
// runs see the same name assignments.
func (octx *Context) Save(baseDir string) error {
	if err := octx.Renamer.SaveState(octx.ContextDir(baseDir)); err != nil {
		return fmt.Errorf("saving rename context: %w", err)
	}
	if !octx.Silent {
		config.PrintInfo("Info: Saved rename context with %d entries.\n", octx.Renamer.Count())
	}
	return nil
}
