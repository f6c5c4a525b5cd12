package symbols

import (
	"math"

	"github.com/dekarrin/tunaq/shapescript/value"
)

// namedColors is the closed set of named color constants, modeled on the
// teacher's tunascript built-in constant table (tunascript registers a
// small fixed set of named values at interpreter construction).
var namedColors = map[string][4]float64{
	"black": {0, 0, 0, 1},
	"white": {1, 1, 1, 1},
	"red":   {1, 0, 0, 1},
	"green": {0, 1, 0, 1},
	"blue":  {0, 0, 1, 1},
	"gray":  {0.5, 0.5, 0.5, 1},
	"grey":  {0.5, 0.5, 0.5, 1},
	"clear": {0, 0, 0, 0},
}

// Builtins returns the root scope's built-in constants: pi, true, false and
// the named colors. The command/property/block entries are not included;
// shapescript/eval's registerBuiltins adds them to the root scope with
// Scope.Define, since their fn closures need the evaluator's context type,
// which symbols does not import, to avoid an import cycle.
func Builtins() map[string]Entry {
	m := map[string]Entry{
		"pi":    {Kind: ConstantKind, Value: value.NumberOf(math.Pi)},
		"true":  {Kind: ConstantKind, Value: value.BooleanOf(true)},
		"false": {Kind: ConstantKind, Value: value.BooleanOf(false)},
	}
	for name, c := range namedColors {
		m[name] = Entry{Kind: ConstantKind, Value: value.ColorOf(c[0], c[1], c[2], c[3])}
	}
	return m
}

// BlockTypeOf returns the block_type a built-in block-valued symbol name
// pushes, used by shapescript/eval to know what scope to construct without
// needing the full Entry (e.g. before a custom override shadows it).
func BlockTypeOf(name string) (BlockType, bool) {
	switch name {
	case "cube", "sphere", "cone", "cylinder", "circle", "square":
		return Primitive, true
	case "extrude", "lathe", "loft", "fill":
		return Builder, true
	case "union", "difference", "intersection", "xor", "stencil":
		return CSG, true
	case "group":
		return Group, true
	case "path":
		return PathBlock, true
	default:
		return 0, false
	}
}
