package tunaq

import (
	"strings"

	"github.com/dekarrin/tunaq/shapescript/eval"
	"github.com/dekarrin/tunaq/shapescript/lower"
	"github.com/dekarrin/tunaq/shapescript/parse"
	"github.com/dekarrin/tunaq/shapescript/scadparse"
)

// Program is a parsed ShapeScript source file, ready to evaluate. It wraps
// shapescript/parse.Program, the shape both the primary and (after
// lowering) secondary dialects normalize to.
type Program = parse.Program

// Scene is the result of evaluating a Program.
type Scene = eval.Scene

// Delegate is the host-provided callback surface an evaluation needs
// (spec.md §6).
type Delegate = eval.Delegate

// GeometryBuilder constructs opaque geometry handles from evaluated
// primitive/builder/CSG invocations (spec.md §6).
type GeometryBuilder = eval.GeometryBuilder

// Parse parses source into a Program. baseURL identifies the source for
// diagnostics and import resolution (imports are resolved relative to it);
// its extension selects the dialect: ".scad" sources are parsed with the
// secondary (OpenSCAD-style) grammar and lowered into the primary dialect's
// AST, everything else is parsed directly as primary ShapeScript.
func Parse(source, baseURL string) (*Program, error) {
	if strings.HasSuffix(baseURL, ".scad") {
		scadProg, err := scadparse.Parse(source, baseURL)
		if err != nil {
			return nil, err
		}
		return lower.Lower(scadProg)
	}
	return parse.Parse(source, baseURL)
}

// Evaluate runs program against delegate and builder to completion. seed
// determines the deterministic PRNG's initial state; cancel, if non-nil, is
// polled cooperatively between statements.
func Evaluate(program *Program, delegate Delegate, builder GeometryBuilder, seed uint64, cancel func() bool) (*Scene, error) {
	return eval.Evaluate(program, delegate, builder, seed, cancel)
}
