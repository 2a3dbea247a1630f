// Package hoist rewrites one parsed module for scope hoisting. Top-level
// bindings are renamed to be globally unique, imports and hoistable requires
// become synthesized side-effect imports plus renamed references, and exports
// become uniquely named top-level variables. Modules that cannot be safely
// hoisted (top-level return, eval, a free "module" reference) are analyzed
// but left to run inside a wrapper by the caller.
package hoist

import (
	"github.com/hoistpack/hoistpack/internal/js_ast"
	"github.com/hoistpack/hoistpack/internal/logger"
)

type Options struct {
	// Namespace prefix for every synthesized name. Must be unique per module
	// across the whole bundle.
	ModuleID string

	// Collect bailout records explaining skipped optimizations
	TraceBailouts bool
}

// Hoist runs the analyzer and the rewriter over one module. The input tree is
// not modified. A non-empty diagnostics slice means the transform was
// rejected and the returned tree and result must not be used.
func Hoist(module js_ast.Module, source *logger.Source, options Options) (js_ast.Module, HoistResult, []Bailout, []logger.Msg) {
	analysis := Analyze(&module, options.TraceBailouts)
	out, result, diagnostics := Rewrite(module, source, analysis, options.ModuleID)
	if len(diagnostics) > 0 {
		return module, HoistResult{}, analysis.Bailouts, diagnostics
	}
	return out, result, analysis.Bailouts, nil
}
