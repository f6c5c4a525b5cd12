package eval

import (
	"math"

	"github.com/dekarrin/tunaq/shapescript/symbols"
	"github.com/dekarrin/tunaq/shapescript/value"
)

// registerBuiltins installs the command/property/block entries whose
// behavior needs the evaluator's Context (material/transform mutation,
// delegate logging), which symbols.Builtins cannot provide without an
// import cycle. Called once per root Context at construction.
func registerBuiltins(ctx *Context) {
	root := ctx.Scope

	registerMathFn(root, "cos", math.Cos)
	registerMathFn(root, "sin", math.Sin)
	registerMathFn(root, "tan", math.Tan)
	registerMathFn(root, "sqrt", math.Sqrt)
	registerMathFn(root, "abs", math.Abs)
	registerMathFn(root, "round", math.Round)
	registerMathFn(root, "floor", math.Floor)
	registerMathFn(root, "ceil", math.Ceil)

	root.Define("print", symbols.Entry{
		Kind:     symbols.CommandKind,
		Expected: value.Tuple,
		Command: func(args value.Value) (value.Value, error) {
			ctx.Delegate.DebugLog(flattenArgs(args))
			return value.TupleOf(), nil
		},
	})
	root.Define("debug", symbols.Entry{
		Kind:     symbols.CommandKind,
		Expected: value.Tuple,
		Command: func(args value.Value) (value.Value, error) {
			ctx.Delegate.DebugLog(flattenArgs(args))
			return value.TupleOf(), nil
		},
	})
	root.Define("random", symbols.Entry{
		Kind:     symbols.CommandKind,
		Expected: value.Tuple,
		Command: func(args value.Value) (value.Value, error) {
			return value.NumberOf(ctx.RNG.Float64()), nil
		},
	})

	root.Define("color", symbols.Entry{
		Kind:     symbols.PropertyKind,
		PropType: value.Color,
		Get:      func() value.Value { return ctx.Material.Color },
		Set:      func(v value.Value) { ctx.Material.Color = v },
	})
	root.Define("detail", symbols.Entry{
		Kind:     symbols.PropertyKind,
		PropType: value.Number,
		Get:      func() value.Value { return value.NumberOf(ctx.Material.Detail) },
		Set:      func(v value.Value) { ctx.Material.Detail = v.Num() },
	})
	root.Define("position", symbols.Entry{
		Kind:     symbols.PropertyKind,
		PropType: value.Vector,
		Get: func() value.Value {
			c := ctx.Transform.Position
			return value.VectorOf(c[0], c[1], c[2])
		},
		Set: func(v value.Value) {
			c := v.Components()
			ctx.Transform.Position = [3]float64{c[0], c[1], c[2]}
		},
	})
	root.Define("orientation", symbols.Entry{
		Kind:     symbols.PropertyKind,
		PropType: value.Rotation,
		Get: func() value.Value {
			c := ctx.Transform.Orientation
			return value.RotationOf(c[0], c[1], c[2])
		},
		Set: func(v value.Value) {
			c := v.Components()
			ctx.Transform.Orientation = [3]float64{c[0], c[1], c[2]}
		},
	})
	root.Define("twist", symbols.Entry{
		Kind:     symbols.PropertyKind,
		PropType: value.Number,
		Get:      func() value.Value { return value.NumberOf(ctx.Material.Twist) },
		Set:      func(v value.Value) { ctx.Material.Twist = v.Num() },
	})
	root.Define("size", symbols.Entry{
		Kind:     symbols.PropertyKind,
		PropType: value.Vector,
		Get: func() value.Value {
			c := ctx.Transform.Size
			return value.VectorOf(c[0], c[1], c[2])
		},
		Set: func(v value.Value) {
			c := v.Components()
			ctx.Transform.Size = [3]float64{c[0], c[1], c[2]}
		},
	})

	for _, name := range []string{"cube", "sphere", "cone", "cylinder", "circle", "square"} {
		bt, _ := symbols.BlockTypeOf(name)
		root.Define(name, symbols.Entry{Kind: symbols.BlockKind, Block: bt, Builder: name})
	}
	for _, name := range []string{"extrude", "lathe", "loft", "fill"} {
		bt, _ := symbols.BlockTypeOf(name)
		root.Define(name, symbols.Entry{Kind: symbols.BlockKind, Block: bt, Builder: name})
	}
	for _, name := range []string{"union", "difference", "intersection", "xor", "stencil"} {
		bt, _ := symbols.BlockTypeOf(name)
		root.Define(name, symbols.Entry{Kind: symbols.BlockKind, Block: bt, Builder: name})
	}
	root.Define("group", symbols.Entry{Kind: symbols.BlockKind, Block: symbols.Group, Builder: "group"})
	root.Define("path", symbols.Entry{Kind: symbols.BlockKind, Block: symbols.PathBlock, Builder: "path"})
}

// propertyChildKind maps a built-in property's name to the ChildKind
// spec.md §4.H's allowed-children table checks it against. Properties
// added beyond that closed table (e.g. "twist", a builder-only extrude
// parameter) have no entry and are left unchecked.
func propertyChildKind(name string) (symbols.ChildKind, bool) {
	switch name {
	case "name":
		return symbols.ChildName, true
	case "position":
		return symbols.ChildPosition, true
	case "orientation":
		return symbols.ChildOrientation, true
	case "size":
		return symbols.ChildSize, true
	case "color":
		return symbols.ChildColor, true
	case "texture":
		return symbols.ChildTexture, true
	case "detail":
		return symbols.ChildDetail, true
	default:
		return 0, false
	}
}

// blockChildKind maps a built-in block's block_type to the ChildKind its
// invocation is checked against when considered as a child of an
// enclosing block (the mesh-producing categories of spec.md §4.H's
// table). User-defined blocks aren't part of that closed table and are
// never passed through this: callers type-switch entry.Builder for
// customBlock first.
func blockChildKind(bt symbols.BlockType) (symbols.ChildKind, bool) {
	switch bt {
	case symbols.Primitive, symbols.Builder:
		return symbols.ChildPrimitive, true
	case symbols.Group:
		return symbols.ChildGroup, true
	case symbols.CSG:
		return symbols.ChildCSG, true
	case symbols.PathBlock:
		return symbols.ChildPathChild, true
	default:
		return 0, false
	}
}

func registerMathFn(root *symbols.Scope, name string, fn func(float64) float64) {
	root.Define(name, symbols.Entry{
		Kind:     symbols.CommandKind,
		Expected: value.Number,
		Command: func(args value.Value) (value.Value, error) {
			return value.NumberOf(fn(args.Num())), nil
		},
	})
}

// flattenArgs turns an evaluated argument Value (possibly a Tuple from
// multiple juxtaposed arguments) into the list form a Delegate's
// DebugLog/print expects.
func flattenArgs(args value.Value) []value.Value {
	if args.Kind() == value.Tuple {
		return args.Elems()
	}
	return []value.Value{args}
}
