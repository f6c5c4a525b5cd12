package eval

import (
	"fmt"

	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/parse"
	"github.com/dekarrin/tunaq/shapescript/srange"
	"github.com/dekarrin/tunaq/shapescript/symbols"
	"github.com/dekarrin/tunaq/shapescript/value"
)

// Scene is the result of evaluating a Program: the root context's
// collected children. The final RNG state is not included.
type Scene struct {
	Children []value.Value
}

// Evaluate runs program to completion against delegate/builder, per
// spec.md §4.I/§6. seed determines the deterministic PRNG's initial state.
func Evaluate(program *parse.Program, delegate Delegate, builder GeometryBuilder, seed uint64, cancel func() bool) (*Scene, error) {
	root := NewRoot(delegate, builder, seed, cancel)
	root.Source = program.Source
	if err := evalStmts(root, program.Stmts); err != nil {
		return nil, err
	}
	return &Scene{Children: root.Children}, nil
}

func evalStmts(ctx *Context, stmts []parse.Stmt) error {
	for _, s := range stmts {
		if err := ctx.checkCancel(s.Range()); err != nil {
			return err
		}
		if err := evalStmt(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func evalStmt(ctx *Context, stmt parse.Stmt) error {
	switch s := stmt.(type) {
	case *parse.DefineStmt:
		return evalDefine(ctx, s)
	case *parse.OptionStmt:
		return evalOption(ctx, s)
	case *parse.CommandStmt:
		return evalCommand(ctx, s)
	case *parse.ExprStmt:
		return evalExprStmt(ctx, s)
	case *parse.ForStmt:
		return evalFor(ctx, s)
	case *parse.IfStmt:
		return evalIf(ctx, s)
	case *parse.ImportStmt:
		return evalImport(ctx, s)
	case *parse.BlockStmt:
		child := ctx.pushScope(ctx.Scope.BlockType)
		return evalStmts(child, s.Stmts)
	default:
		return diag.CustomParserError(stmt.Range(), "unsupported statement", "")
	}
}

func evalDefine(ctx *Context, s *parse.DefineStmt) error {
	if s.Body != nil {
		ctx.Scope.Define(s.Name, symbols.Entry{
			Kind:  symbols.BlockKind,
			Block: symbols.CustomDefinition,
			Builder: customBlock{body: s.Body, closure: ctx},
		})
		return nil
	}
	v, err := evalExpr(ctx, s.Expr)
	if err != nil {
		return err
	}
	ctx.Scope.Define(s.Name, symbols.Entry{Kind: symbols.ConstantKind, Value: v})
	return nil
}

// customBlock is the Builder payload for a user-defined block symbol: its
// statement body plus the lexical context it was defined in (closures are
// modeled as explicit builder objects per spec.md §9, not as captured Go
// closures over evaluator internals).
type customBlock struct {
	body    []parse.Stmt
	closure *Context
}

func evalOption(ctx *Context, s *parse.OptionStmt) error {
	if ctx.Scope.BlockType != symbols.CustomDefinition {
		return diag.CustomParserError(s.Range(), "option is only valid inside a custom block definition", "")
	}
	// bound by the invocation pass before the body runs (see invokeCustomBlock);
	// if still unbound here, fall back to the default expression.
	if _, ok := ctx.Scope.Entries[s.Name]; ok {
		return nil
	}
	def, err := evalExpr(ctx, s.Default)
	if err != nil {
		return err
	}
	ctx.Scope.Define(s.Name, symbols.Entry{Kind: symbols.ConstantKind, Value: def})
	return nil
}

func evalCommand(ctx *Context, s *parse.CommandStmt) error {
	entry, ok := ctx.Scope.Lookup(s.Name)
	if !ok {
		return diag.UnknownSymbolError(s.Range(), s.Name, ctx.Scope.Names())
	}

	args, err := evalArgsAsTuple(ctx, s.Args)
	if err != nil {
		return err
	}

	switch entry.Kind {
	case symbols.PropertyKind:
		// spec.md §4.H's allowed-children table scopes properties like
		// "position"/"name" to the block types that permit them (e.g. not
		// root); a property with no table entry (an added extra such as
		// "twist") is unchecked.
		if ck, hasRule := propertyChildKind(s.Name); hasRule && !ctx.allows(ck) {
			return diag.UnknownSymbolError(s.Range(), s.Name, ctx.Scope.Names())
		}
		if entry.Set == nil {
			return diag.CustomParserError(s.Range(), fmt.Sprintf("%s is read-only", s.Name), "")
		}
		coerced, err := coerceOrError(s.Range(), s.Name, 0, entry.PropType, args)
		if err != nil {
			return err
		}
		entry.Set(coerced)
		return nil

	case symbols.CommandKind:
		if !ctx.allows(symbols.ChildCommand) {
			return diag.UnknownSymbolError(s.Range(), s.Name, ctx.Scope.Names())
		}
		coerced, err := coerceOrError(s.Range(), s.Name, 0, entry.Expected, args)
		if err != nil {
			return err
		}
		result, err := entry.Command(coerced)
		if err != nil {
			return err
		}
		if result.Kind() == value.Mesh {
			ctx.addChild(result)
		}
		return nil

	case symbols.BlockKind:
		if len(s.Args) != 0 {
			return diag.UnexpectedArgumentError(s.Range(), s.Name, 0)
		}
		if err := checkBlockChildAllowed(ctx, entry, s.Range()); err != nil {
			return err
		}
		result, err := invokeBlock(ctx, entry, nil, s.Range())
		if err != nil {
			return err
		}
		if result.Kind() == value.Mesh {
			ctx.addChild(result)
		}
		return nil

	default:
		return diag.UnknownSymbolError(s.Range(), s.Name, ctx.Scope.Names())
	}
}

// checkBlockChildAllowed enforces spec.md §4.H's mesh-producing-child
// categories (primitive/group/csg) for a built-in block invoked in the
// current context: e.g. "extrude { cube { ... } }" must reject the cube,
// since builder's allowed set has no primitive/group/csg entry. Custom
// (user-defined) blocks aren't part of that closed table and are always
// allowed.
func checkBlockChildAllowed(ctx *Context, entry symbols.Entry, r srange.Range) error {
	if _, isCustom := entry.Builder.(customBlock); isCustom {
		return nil
	}
	if ck, hasRule := blockChildKind(entry.Block); hasRule && !ctx.allows(ck) {
		return diag.UnusedValueError(r, "a mesh value")
	}
	return nil
}

func evalExprStmt(ctx *Context, s *parse.ExprStmt) error {
	if bi, ok := s.Expr.(*parse.BlockInvocationExpr); ok {
		if entry, ok := ctx.Scope.Lookup(bi.Name); ok && entry.Kind == symbols.BlockKind {
			if err := checkBlockChildAllowed(ctx, entry, s.Range()); err != nil {
				return err
			}
		}
		v, err := evalBlockInvocationExpr(ctx, bi)
		if err != nil {
			return err
		}
		if v.Kind() == value.Mesh {
			ctx.addChild(v)
			return nil
		}
		return diag.UnusedValueError(s.Range(), describeValue(v))
	}

	v, err := evalExpr(ctx, s.Expr)
	if err != nil {
		return err
	}
	return diag.UnusedValueError(s.Range(), describeValue(v))
}

func describeValue(v value.Value) string {
	return fmt.Sprintf("a %s value", v.Kind())
}

func evalFor(ctx *Context, s *parse.ForStmt) error {
	v, err := evalExpr(ctx, s.In)
	if err != nil {
		return err
	}

	switch v.Kind() {
	case value.Range:
		from, to, step := v.RangeBounds()
		if step == 0 {
			return diag.AssertionFailureError(s.In.Range(), "Step value must be nonzero")
		}
		n := value.RangeLen(from, to, step)
		for i := 0; i < n; i++ {
			elem := from + float64(i)*step
			if err := runLoopBody(ctx, s, value.NumberOf(elem)); err != nil {
				return err
			}
		}
		return nil

	case value.Tuple:
		for _, elem := range v.Elems() {
			if err := runLoopBody(ctx, s, elem); err != nil {
				return err
			}
		}
		return nil

	default:
		if err := runLoopBody(ctx, s, v); err != nil {
			return err
		}
		return nil
	}
}

func runLoopBody(ctx *Context, s *parse.ForStmt, elem value.Value) error {
	if err := ctx.checkCancel(s.Range()); err != nil {
		return err
	}
	child := ctx.pushScope(symbols.LoopBody)
	if s.Index != "" {
		child.Scope.Define(s.Index, symbols.Entry{Kind: symbols.ConstantKind, Value: elem})
	}
	if err := evalStmts(child, s.Body); err != nil {
		return err
	}
	ctx.Children = append(ctx.Children, child.Children...)
	return nil
}

func evalIf(ctx *Context, s *parse.IfStmt) error {
	v, err := evalExpr(ctx, s.Cond)
	if err != nil {
		return err
	}
	b, ok := v.Truthy()
	if !ok {
		return diag.TypeMismatchError(s.Cond.Range(), "if condition", 0, "boolean", v.Kind().String())
	}

	if b {
		child := ctx.pushScope(ctx.Scope.BlockType)
		if err := evalStmts(child, s.Body); err != nil {
			return err
		}
		ctx.Children = append(ctx.Children, child.Children...)
		return nil
	}
	if s.ElseIf != nil {
		return evalIf(ctx, s.ElseIf)
	}
	if s.Else != nil {
		child := ctx.pushScope(ctx.Scope.BlockType)
		if err := evalStmts(child, s.Else); err != nil {
			return err
		}
		ctx.Children = append(ctx.Children, child.Children...)
	}
	return nil
}

func evalImport(ctx *Context, s *parse.ImportStmt) error {
	v, err := evalExpr(ctx, s.Expr)
	if err != nil {
		return err
	}
	if v.Kind() != value.String {
		return diag.TypeMismatchError(s.Range(), "import", 0, "string", v.Kind().String())
	}
	path := v.Str()

	url, err := ctx.Delegate.ResolveURL(path)
	if err != nil {
		return diag.FileNotFoundError(s.Range(), path)
	}

	if isShapeFile(url) {
		prog, cached := ctx.ImportCache.Get(url)
		if !cached {
			src, err := ctx.Delegate.ReadSource(url)
			if err != nil {
				return diag.FileNotFoundError(s.Range(), path)
			}
			prog, err = parse.Parse(src, url)
			if err != nil {
				return diag.FileParsingErrorError(s.Range(), path, err)
			}
			ctx.ImportCache.Put(url, prog)
		}
		nested := &Context{
			Scope:       symbols.NewRoot(),
			Transform:   ctx.Transform,
			Material:    ctx.Material,
			RNG:         ctx.RNG,
			Delegate:    ctx.Delegate,
			Builder:     ctx.Builder,
			Cancel:      ctx.Cancel,
			ImportCache: ctx.ImportCache,
			Source:      prog.Source,
			depth:       ctx.depth,
		}
		registerBuiltins(nested)
		if err := evalStmts(nested, prog.Stmts); err != nil {
			return diag.ImportErrorWrap(s.Range(), path, err)
		}
		ctx.Children = append(ctx.Children, nested.Children...)
		return nil
	}

	geom, err := ctx.Delegate.ImportGeometry(url)
	if err != nil {
		return diag.ImportErrorWrap(s.Range(), path, err)
	}
	ctx.addChild(geom)
	return nil
}

func isShapeFile(url string) bool {
	return len(url) >= 6 && url[len(url)-6:] == ".shape"
}

// evalArgsAsTuple evaluates a juxtaposed argument list into a single Value:
// zero args is a length-0 empty tuple sentinel (Number(0) is never
// produced for an empty list, so coercing it to a number fails with a type
// mismatch), one arg passes through as itself, multiple args form a Tuple.
func evalArgsAsTuple(ctx *Context, args []parse.Expr) (value.Value, error) {
	switch len(args) {
	case 0:
		return value.TupleOf(), nil
	case 1:
		return evalExpr(ctx, args[0])
	default:
		vals := make([]value.Value, len(args))
		for i, a := range args {
			v, err := evalExpr(ctx, a)
			if err != nil {
				return value.Value{}, err
			}
			vals[i] = v
		}
		return value.TupleOf(vals...), nil
	}
}

func coerceOrError(r srange.Range, name string, index int, target value.Kind, v value.Value) (value.Value, error) {
	coerced, err := value.CoerceTo(v, target)
	if err != nil {
		return value.Value{}, diag.TypeMismatchError(r, name, index, target.String(), v.Kind().String())
	}
	return coerced, nil
}
