package eval

import (
	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/parse"
	"github.com/dekarrin/tunaq/shapescript/srange"
	"github.com/dekarrin/tunaq/shapescript/symbols"
	"github.com/dekarrin/tunaq/shapescript/value"
)

// evalBlockInvocationExpr evaluates "name { body }" as an expression
// (spec.md §4.I "block invocation"), returning whatever the invoked
// block's result rule produces.
func evalBlockInvocationExpr(ctx *Context, n *parse.BlockInvocationExpr) (value.Value, error) {
	entry, ok := ctx.Scope.Lookup(n.Name)
	if !ok {
		return value.Value{}, diag.UnknownSymbolError(n.Range(), n.Name, ctx.Scope.Names())
	}
	if entry.Kind != symbols.BlockKind {
		return value.Value{}, diag.TypeMismatchError(n.Range(), n.Name, 0, "block", "value")
	}
	return invokeBlock(ctx, entry, n.Body, n.Range())
}

// invokeBlock pushes a fresh context of entry's block_type, runs body (a
// two-pass option-binding then statement-evaluation per spec.md §4.I), and
// folds the resulting children into entry's result per the single/tuple/
// aggregate rule.
func invokeBlock(ctx *Context, entry symbols.Entry, body []parse.Stmt, r srange.Range) (value.Value, error) {
	exit, err := ctx.enter(r)
	defer exit()
	if err != nil {
		return value.Value{}, err
	}

	if custom, ok := entry.Builder.(customBlock); ok {
		return invokeCustomBlock(ctx, custom, body, r)
	}
	tag, _ := entry.Builder.(string)
	return invokeBuiltinBlock(ctx, entry.Block, tag, body, r)
}

// invokeCustomBlock runs a user-defined block (spec.md §4.I: "store a
// block symbol whose invocation re-enters a fresh definition context").
func invokeCustomBlock(ctx *Context, custom customBlock, callArgs []parse.Stmt, r srange.Range) (value.Value, error) {
	child := custom.closure.pushDefinition()

	// first pass: bind option overrides from the caller's body, matched by
	// the option's own name against a same-named single-argument command
	// statement the caller supplied. Options without an override get their
	// default when evalOption runs during the body. Positional arguments
	// are not bound.
	for _, stmt := range custom.body {
		opt, ok := stmt.(*parse.OptionStmt)
		if !ok {
			continue
		}
		if override := findOverride(callArgs, opt.Name); override != nil {
			v, err := evalExpr(child, override)
			if err != nil {
				return value.Value{}, err
			}
			child.Scope.Define(opt.Name, symbols.Entry{Kind: symbols.ConstantKind, Value: v})
		}
	}

	if err := evalStmts(child, custom.body); err != nil {
		return value.Value{}, err
	}
	return foldChildren(child.Children), nil
}

func findOverride(callArgs []parse.Stmt, name string) parse.Expr {
	for _, stmt := range callArgs {
		if cmd, ok := stmt.(*parse.CommandStmt); ok && cmd.Name == name && len(cmd.Args) == 1 {
			return cmd.Args[0]
		}
	}
	return nil
}

// invokeBuiltinBlock runs a built-in primitive/builder/CSG/group block.
func invokeBuiltinBlock(ctx *Context, bt symbols.BlockType, tag string, body []parse.Stmt, r srange.Range) (value.Value, error) {
	child := ctx.pushScope(bt)
	if err := evalStmts(child, body); err != nil {
		return value.Value{}, err
	}

	switch bt {
	case symbols.Primitive, symbols.Builder, symbols.CSG, symbols.Group:
		if tag == "" {
			tag = bt.String()
		}
		transform := ctx.Transform.Compose(child.Transform)
		handle, err := ctx.Builder.Build(tag, value.TupleOf(), transform, child.Material, child.Children)
		if err != nil {
			return value.Value{}, err
		}
		return value.MeshOf(handle), nil

	default:
		return foldChildren(child.Children), nil
	}
}

// foldChildren implements the block-result rule from spec.md §4.I: one
// child returns as itself, more than one becomes a tuple, and none becomes
// an empty tuple. A non-mesh value produced by an expression statement in
// the body is not a child, so it is never the block's result (evalExprStmt
// reports it as an unused value instead).
func foldChildren(children []value.Value) value.Value {
	switch len(children) {
	case 0:
		return value.TupleOf()
	case 1:
		return children[0]
	default:
		return value.TupleOf(children...)
	}
}
