// Package deobfuscator orchestrates the transformation pipeline: it runs
// the passes in their fixed order over one parsed program and assembles the
// result object callers receive.
package deobfuscator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/whit3rabbit/jsmix/internal/astutil"
	"github.com/whit3rabbit/jsmix/internal/config"
	"github.com/whit3rabbit/jsmix/internal/transformer"
	"github.com/whit3rabbit/jsmix/internal/utils"
)

// confidenceSaturation is the transformation count at which confidence
// reaches 1.0.
const confidenceSaturation = 5

// Options toggles the individual passes. Self-defense removal has no
// toggle; it always runs.
type Options struct {
	RemoveDeadCode      bool
	RestoreControlFlow  bool
	DecryptStrings      bool
	SimplifyExpressions bool
	RenameIdentifiers   bool
}

// DefaultOptions enables every pass.
func DefaultOptions() Options {
	return Options{
		RemoveDeadCode:      true,
		RestoreControlFlow:  true,
		DecryptStrings:      true,
		SimplifyExpressions: true,
		RenameIdentifiers:   true,
	}
}

// OptionsFromConfig maps the configuration's pass toggles onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RemoveDeadCode:      cfg.Deobfuscation.DeadCode.Enabled,
		RestoreControlFlow:  cfg.Deobfuscation.ControlFlow.Enabled,
		DecryptStrings:      cfg.Deobfuscation.Strings.Enabled,
		SimplifyExpressions: cfg.Deobfuscation.Expressions.Enabled,
		RenameIdentifiers:   cfg.Deobfuscation.Rename.Enabled,
	}
}

// Transformation records one pass that fired.
type Transformation struct {
	Pass        string
	Description string
	Count       int
}

// String renders the log entry with its embedded count.
func (t Transformation) String() string {
	return fmt.Sprintf("%s: %s (%d)", t.Pass, t.Description, t.Count)
}

// Result is the immutable outcome of one Deobfuscate call.
type Result struct {
	Code            string   `json:"code"`
	Success         bool     `json:"success"`
	Transformations []string `json:"transformations"`
	Warnings        []string `json:"warnings"`
	Confidence      float64  `json:"confidence"`
}

// Deobfuscate runs the pipeline over one piece of source text. It never
// panics and never returns an error: parse and final print failures are
// encoded in the Result with the original text echoed back.
func (octx *Context) Deobfuscate(code string) *Result {
	runID := uuid.NewString()
	log := utils.Logger.With().Str("run_id", runID).Logger()

	opts := OptionsFromConfig(octx.Config)

	prog, parseWarnings, err := astutil.Parse(code)
	if err != nil {
		log.Warn().Err(err).Msg("parse failed, echoing input back")
		return &Result{
			Code:            code,
			Success:         false,
			Transformations: []string{},
			Warnings:        []string{err.Error()},
			Confidence:      0,
		}
	}

	var (
		applied  []Transformation
		warnings []string
	)
	warnings = append(warnings, parseWarnings...)

	// The decoder scan must see the untouched tree; self-defense removal
	// below is the first mutation.
	var registry transformer.DecoderRegistry
	if opts.DecryptStrings {
		registry = transformer.ScanRegistry(prog)
	}

	selfDefense := transformer.NewSelfDefenseRemover()
	selfDefense.Apply(prog)
	if selfDefense.Removed > 0 {
		applied = append(applied, Transformation{
			Pass:        "self-defense",
			Description: "removed anti-debugging and anti-tampering statements",
			Count:       selfDefense.Removed,
		})
	}

	if opts.DecryptStrings {
		decrypt := transformer.NewStringDecryptor(registry, octx.Config.Deobfuscation.Strings.Placeholder)
		warnings = append(warnings, decrypt.Apply(prog)...)
		if decrypt.Replaced > 0 {
			applied = append(applied, Transformation{
				Pass:        "string-decryption",
				Description: "replaced decoder calls with placeholder literals",
				Count:       decrypt.Replaced,
			})
		}
	}

	if opts.RestoreControlFlow {
		restore := transformer.NewControlFlowRestorer()
		restore.Apply(prog)
		if restore.Restored > 0 {
			applied = append(applied, Transformation{
				Pass:        "control-flow",
				Description: "unflattened dispatch loops",
				Count:       restore.Restored,
			})
		}
		if restore.Failed > 0 {
			warnings = append(warnings, fmt.Sprintf("control-flow: %d dispatch loop(s) could not be restored and were left intact", restore.Failed))
		}
	}

	if opts.RemoveDeadCode {
		deadCode := transformer.NewDeadCodeEliminator()
		deadCode.Apply(prog)
		if deadCode.Folded > 0 {
			applied = append(applied, Transformation{
				Pass:        "dead-code",
				Description: "folded constant-condition branches",
				Count:       deadCode.Folded,
			})
		}
	}

	if opts.SimplifyExpressions {
		simplify := transformer.NewExpressionSimplifier()
		simplify.Apply(prog)
		if simplify.Folded > 0 {
			applied = append(applied, Transformation{
				Pass:        "expressions",
				Description: "folded constant arithmetic",
				Count:       simplify.Folded,
			})
		}
	}

	// Renaming runs last so the detectors above still see the original
	// obfuscated names.
	if opts.RenameIdentifiers {
		rename := transformer.NewIdentifierRenamer(octx.Renamer)
		rename.Apply(prog)
		if rename.Renamed > 0 {
			applied = append(applied, Transformation{
				Pass:        "rename",
				Description: "normalized obfuscated identifiers",
				Count:       rename.Renamed,
			})
		}
	}

	out, err := astutil.Print(prog)
	if err != nil {
		log.Error().Err(err).Msg("final print failed, echoing input back")
		return &Result{
			Code:            code,
			Success:         false,
			Transformations: renderTransformations(applied),
			Warnings:        append(warnings, err.Error()),
			Confidence:      0,
		}
	}

	total := 0
	for _, tr := range applied {
		total += tr.Count
	}
	log.Debug().Int("transformations", total).Msg("pipeline complete")

	return &Result{
		Code:            out,
		Success:         true,
		Transformations: renderTransformations(applied),
		Warnings:        warnings,
		Confidence:      confidence(total),
	}
}

// confidence maps a transformation total to [0, 1], saturating at five. A
// coarse rank-ordering signal, not a correctness proof.
func confidence(total int) float64 {
	if total <= 0 {
		return 0
	}
	c := float64(total) / confidenceSaturation
	if c > 1 {
		return 1
	}
	return c
}

func renderTransformations(applied []Transformation) []string {
	out := make([]string, len(applied))
	for i, tr := range applied {
		out[i] = tr.String()
	}
	return out
}
