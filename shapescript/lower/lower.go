// Package lower translates a parsed secondary-dialect (OpenSCAD-style)
// program into the primary ShapeScript AST (spec.md §4.F), so the
// evaluator only ever walks one tree shape. Grounded on the teacher's
// tunascript-old -> tunascript migration shape (a whole-AST rewrite pass
// over a legacy grammar into the current one); here the "legacy" grammar
// is scadparse's rather than an older ShapeScript version.
package lower

import (
	"fmt"
	"math"

	"github.com/dekarrin/tunaq/internal/util"
	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/parse"
	"github.com/dekarrin/tunaq/shapescript/scadparse"
)

// degToRad and radToDeg implement spec.md §4.F's "trig-call arguments are
// pre-multiplied by π/180" rule for the forward trig functions, and the
// inverse for their arc- counterparts.
const degToRadFactor = math.Pi / 180
const radToDegFactor = 180 / math.Pi

var forwardTrig = map[string]bool{"sin": true, "cos": true, "tan": true}
var inverseTrig = map[string]bool{"asin": true, "acos": true, "atan": true}

// mangler tracks identifiers already assigned in the primary-dialect output
// so colliding mangled names (spec.md §4.F: "collision-suffixing with _")
// are distinguished.
type mangler struct {
	seen util.StringSet
}

func newMangler() *mangler { return &mangler{seen: util.NewStringSet()} }

func (m *mangler) name(raw string) string {
	name := scadparse.MangleIdent(raw)
	for m.seen.Has(name) {
		name += "_"
	}
	m.seen.Add(name)
	return name
}

// Lower translates prog's statements into a primary-dialect Program.
func Lower(prog *scadparse.Program) (*parse.Program, error) {
	l := &lowerer{mangle: newMangler()}
	stmts, err := l.stmts(prog.Stmts)
	if err != nil {
		return nil, err
	}
	return &parse.Program{Source: prog.Source, FileURL: prog.FileURL, Stmts: stmts}, nil
}

type lowerer struct {
	mangle *mangler
}

func (l *lowerer) stmts(in []scadparse.Stmt) ([]parse.Stmt, error) {
	var out []parse.Stmt
	for _, s := range in {
		lowered, err := l.stmt(s)
		if err != nil {
			return nil, err
		}
		if lowered != nil {
			out = append(out, lowered)
		}
	}
	return out, nil
}

func (l *lowerer) stmt(s scadparse.Stmt) (parse.Stmt, error) {
	switch n := s.(type) {
	case *scadparse.AssignStmt:
		expr, err := l.expr(n.Expr)
		if err != nil {
			return nil, err
		}
		return &parse.DefineStmt{Name: l.mangle.name(n.Name), Expr: expr, Rng: n.Rng}, nil

	case *scadparse.BlockStmt:
		stmts, err := l.stmts(n.Stmts)
		if err != nil {
			return nil, err
		}
		return &parse.BlockStmt{Stmts: stmts, Rng: n.Rng}, nil

	case *scadparse.ForStmt:
		in, err := l.expr(n.In)
		if err != nil {
			return nil, err
		}
		body, err := l.bodyOf(n.Body)
		if err != nil {
			return nil, err
		}
		return &parse.ForStmt{Index: l.mangle.name(n.Var), In: in, Body: body, Rng: n.Rng}, nil

	case *scadparse.IfStmt:
		return l.ifStmt(n)

	case *scadparse.ModuleDefStmt:
		body, err := l.stmts(n.Body)
		if err != nil {
			return nil, err
		}
		return &parse.DefineStmt{Name: l.mangle.name(n.Name), Body: body, Rng: n.Rng}, nil

	case *scadparse.FunctionDefStmt:
		expr, err := l.expr(n.Expr)
		if err != nil {
			return nil, err
		}
		return &parse.DefineStmt{Name: l.mangle.name(n.Name), Expr: expr, Rng: n.Rng}, nil

	case *scadparse.ModuleCallStmt:
		return l.moduleCall(n)

	default:
		return nil, diag.CustomParserError(s.Range(), "unsupported secondary-dialect statement", "")
	}
}

func (l *lowerer) ifStmt(n *scadparse.IfStmt) (parse.Stmt, error) {
	cond, err := l.expr(n.Cond)
	if err != nil {
		return nil, err
	}
	body, err := l.bodyOf(n.Then)
	if err != nil {
		return nil, err
	}
	out := &parse.IfStmt{Cond: cond, Body: body, Rng: n.Rng}
	if n.Else != nil {
		if elseIf, ok := n.Else.(*scadparse.IfStmt); ok {
			nested, err := l.ifStmt(elseIf)
			if err != nil {
				return nil, err
			}
			out.ElseIf = nested.(*parse.IfStmt)
		} else {
			elseBody, err := l.bodyOf(n.Else)
			if err != nil {
				return nil, err
			}
			out.Else = elseBody
		}
	}
	return out, nil
}

// bodyOf normalizes a single Stmt (which may or may not be a BlockStmt) into
// a []parse.Stmt body, the shape every primary-dialect block wants.
func (l *lowerer) bodyOf(s scadparse.Stmt) ([]parse.Stmt, error) {
	if s == nil {
		return nil, nil
	}
	if b, ok := s.(*scadparse.BlockStmt); ok {
		return l.stmts(b.Stmts)
	}
	one, err := l.stmt(s)
	if err != nil {
		return nil, err
	}
	return []parse.Stmt{one}, nil
}

// moduleCall dispatches a "name(args) [next|{body}]" call to the per-name
// translation rule from spec.md §4.F.
func (l *lowerer) moduleCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	switch n.Name {
	case "translate":
		return l.translate(n)
	case "rotate":
		return l.rotate(n)
	case "scale":
		return l.scaleCall(n)
	case "color":
		return l.colorCall(n)
	case "cube":
		return l.cubeCall(n)
	case "square":
		return l.squareCall(n)
	case "sphere":
		return l.sphereCall(n)
	case "circle":
		return l.circleCall(n)
	case "linear_extrude":
		return l.linearExtrude(n)
	case "union", "difference", "intersection", "group":
		return l.csgOrGroup(n)
	case "echo":
		return l.echoCall(n)
	// TODO: hull/minkowski/offset/resize/mirror/multmatrix need a real
	// geometric transform with no primary-dialect equivalent to lower
	// onto; until one is built, pass their children through as a plain
	// group rather than guessing at a translation or silently dropping
	// the statement.
	case "hull", "minkowski", "offset", "resize", "mirror", "multmatrix":
		return l.csgOrGroup(n)
	default:
		return l.genericCall(n)
	}
}

// argAt returns the value of the i'th positional arg, or the named arg
// matching any of names, preferring a positional match.
func argAt(args []scadparse.Arg, i int, names ...string) scadparse.Expr {
	if i >= 0 && i < len(args) && args[i].Name == "" {
		return args[i].Value
	}
	for _, a := range args {
		for _, want := range names {
			if a.Name == want {
				return a.Value
			}
		}
	}
	return nil
}

func (l *lowerer) nextBody(n *scadparse.ModuleCallStmt) ([]parse.Stmt, error) {
	if n.Body != nil {
		return l.stmts(n.Body)
	}
	if n.Next != nil {
		return l.bodyOf(n.Next)
	}
	return nil, nil
}

func (l *lowerer) translate(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	v := argAt(n.Args, 0, "v")
	if v == nil {
		return nil, diag.MissingArgumentError(n.Rng, "translate", 0, "v")
	}
	vec, err := l.expr(v)
	if err != nil {
		return nil, err
	}
	next, err := l.nextBody(n)
	if err != nil {
		return nil, err
	}
	body := []parse.Stmt{&parse.CommandStmt{Name: "position", Args: []parse.Expr{vec}, Rng: n.Rng}}
	body = append(body, next...)
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "group", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

func (l *lowerer) rotate(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	a := argAt(n.Args, 0, "a")
	if a == nil {
		return nil, diag.MissingArgumentError(n.Rng, "rotate", 0, "a")
	}
	vec, err := l.expr(a)
	if err != nil {
		return nil, err
	}
	next, err := l.nextBody(n)
	if err != nil {
		return nil, err
	}

	primeName := l.mangle.name("rot_prime")
	primeExpr := &parse.InfixExpr{
		Left:  vec,
		Op:    "/",
		Right: &parse.PrefixExpr{Op: "-", Operand: &parse.NumberExpr{Value: 180, Rng: n.Rng}, Rng: n.Rng},
		Rng:   n.Rng,
	}
	defineStmt := &parse.DefineStmt{Name: primeName, Expr: primeExpr, Rng: n.Rng}

	member := func(axis string) parse.Expr {
		return &parse.MemberExpr{Target: &parse.IdentifierExpr{Name: primeName, Rng: n.Rng}, Name: axis, Rng: n.Rng}
	}
	rotateStmt := &parse.CommandStmt{
		Name: "orientation",
		Args: []parse.Expr{member("z"), member("y"), member("x")},
		Rng:  n.Rng,
	}

	body := []parse.Stmt{defineStmt, rotateStmt}
	body = append(body, next...)
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "group", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

func (l *lowerer) scaleCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	v := argAt(n.Args, 0, "v")
	if v == nil {
		return nil, diag.MissingArgumentError(n.Rng, "scale", 0, "v")
	}
	vec, err := l.expr(v)
	if err != nil {
		return nil, err
	}
	next, err := l.nextBody(n)
	if err != nil {
		return nil, err
	}
	body := []parse.Stmt{&parse.CommandStmt{Name: "size", Args: []parse.Expr{vec}, Rng: n.Rng}}
	body = append(body, next...)
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "group", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

func (l *lowerer) colorCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	c := argAt(n.Args, 0, "c")
	if c == nil {
		return nil, diag.MissingArgumentError(n.Rng, "color", 0, "c")
	}
	cExpr, err := l.expr(c)
	if err != nil {
		return nil, err
	}
	args := []parse.Expr{cExpr}
	if alpha := argAt(n.Args, 1, "alpha"); alpha != nil {
		aExpr, err := l.expr(alpha)
		if err != nil {
			return nil, err
		}
		args = append(args, aExpr)
	}
	next, err := l.nextBody(n)
	if err != nil {
		return nil, err
	}
	body := []parse.Stmt{&parse.CommandStmt{Name: "color", Args: args, Rng: n.Rng}}
	body = append(body, next...)
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "group", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

// cubeCall implements "cube(size, center?) -> cube { size <size>; if
// (center==false) position size/2 }".
func (l *lowerer) cubeCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	sizeArg := argAt(n.Args, 0, "size")
	var sizeExpr parse.Expr = &parse.NumberExpr{Value: 1, Rng: n.Rng}
	if sizeArg != nil {
		var err error
		sizeExpr, err = l.expr(sizeArg)
		if err != nil {
			return nil, err
		}
	}

	centered := true
	if c := argAt(n.Args, 1, "center"); c != nil {
		if b, ok := c.(*scadparse.IdentExpr); ok && b.Name == "false" {
			centered = false
		}
	}

	body := []parse.Stmt{&parse.CommandStmt{Name: "size", Args: []parse.Expr{sizeExpr}, Rng: n.Rng}}
	if !centered {
		half := &parse.InfixExpr{Left: sizeExpr, Op: "/", Right: &parse.NumberExpr{Value: 2, Rng: n.Rng}, Rng: n.Rng}
		body = append(body, &parse.CommandStmt{Name: "position", Args: []parse.Expr{half}, Rng: n.Rng})
	}
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "cube", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

func (l *lowerer) squareCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	sizeArg := argAt(n.Args, 0, "size")
	var sizeExpr parse.Expr = &parse.NumberExpr{Value: 1, Rng: n.Rng}
	if sizeArg != nil {
		var err error
		sizeExpr, err = l.expr(sizeArg)
		if err != nil {
			return nil, err
		}
	}
	centered := true
	if c := argAt(n.Args, 1, "center"); c != nil {
		if b, ok := c.(*scadparse.IdentExpr); ok && b.Name == "false" {
			centered = false
		}
	}
	body := []parse.Stmt{&parse.CommandStmt{Name: "size", Args: []parse.Expr{sizeExpr}, Rng: n.Rng}}
	if !centered {
		half := &parse.InfixExpr{Left: sizeExpr, Op: "/", Right: &parse.NumberExpr{Value: 2, Rng: n.Rng}, Rng: n.Rng}
		body = append(body, &parse.CommandStmt{Name: "position", Args: []parse.Expr{half}, Rng: n.Rng})
	}
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "square", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

// sphereCall implements "sphere(r|d, $fn?) -> sphere { size <2r|d>; detail
// <$fn>? }".
func (l *lowerer) sphereCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	var sizeExpr parse.Expr
	if r := argAt(n.Args, 0, "r"); r != nil {
		rExpr, err := l.expr(r)
		if err != nil {
			return nil, err
		}
		sizeExpr = &parse.InfixExpr{Left: &parse.NumberExpr{Value: 2, Rng: n.Rng}, Op: "*", Right: rExpr, Rng: n.Rng}
	} else if d := argAt(n.Args, 0, "d"); d != nil {
		dExpr, err := l.expr(d)
		if err != nil {
			return nil, err
		}
		sizeExpr = dExpr
	} else {
		return nil, diag.MissingArgumentError(n.Rng, "sphere", 0, "r")
	}

	body := []parse.Stmt{&parse.CommandStmt{Name: "size", Args: []parse.Expr{sizeExpr}, Rng: n.Rng}}
	if fn := argAt(n.Args, -1, "$fn"); fn != nil {
		fnExpr, err := l.expr(fn)
		if err != nil {
			return nil, err
		}
		body = append(body, &parse.CommandStmt{Name: "detail", Args: []parse.Expr{fnExpr}, Rng: n.Rng})
	}
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "sphere", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

// circleCall lowers "circle(r|d, $fn?)" wrapped in an extrude block, per
// spec.md §4.F's note that 2D primitives become mesh values via an
// enclosing extrude when used outside a path context.
func (l *lowerer) circleCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	var sizeExpr parse.Expr
	if r := argAt(n.Args, 0, "r"); r != nil {
		rExpr, err := l.expr(r)
		if err != nil {
			return nil, err
		}
		sizeExpr = &parse.InfixExpr{Left: &parse.NumberExpr{Value: 2, Rng: n.Rng}, Op: "*", Right: rExpr, Rng: n.Rng}
	} else if d := argAt(n.Args, 0, "d"); d != nil {
		dExpr, err := l.expr(d)
		if err != nil {
			return nil, err
		}
		sizeExpr = dExpr
	} else {
		return nil, diag.MissingArgumentError(n.Rng, "circle", 0, "r")
	}

	circleBody := []parse.Stmt{&parse.CommandStmt{Name: "size", Args: []parse.Expr{sizeExpr}, Rng: n.Rng}}
	if fn := argAt(n.Args, -1, "$fn"); fn != nil {
		fnExpr, err := l.expr(fn)
		if err != nil {
			return nil, err
		}
		circleBody = append(circleBody, &parse.CommandStmt{Name: "detail", Args: []parse.Expr{fnExpr}, Rng: n.Rng})
	}
	circleInvocation := &parse.ExprStmt{
		Expr: &parse.BlockInvocationExpr{Name: "circle", Body: circleBody, Rng: n.Rng},
		Rng:  n.Rng,
	}
	extrudeBody := []parse.Stmt{circleInvocation}
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "extrude", Body: extrudeBody, Rng: n.Rng}, Rng: n.Rng}, nil
}

// linearExtrude implements spec.md §4.F's
// "linear_extrude(height, twist?, slices?, center?) { body } -> extrude {
// size 1 1 <h>; position 0 0 <h/2> (if !center); twist <twist>/180;
// <body>; detail <slices>*4 }".
func (l *lowerer) linearExtrude(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	h := argAt(n.Args, 0, "height")
	if h == nil {
		return nil, diag.MissingArgumentError(n.Rng, "linear_extrude", 0, "height")
	}
	hExpr, err := l.expr(h)
	if err != nil {
		return nil, err
	}

	centered := false
	if c := argAt(n.Args, -1, "center"); c != nil {
		if b, ok := c.(*scadparse.IdentExpr); ok && b.Name == "true" {
			centered = true
		}
	}

	innerBody, err := l.stmts(n.Body)
	if err != nil {
		return nil, err
	}

	sizeStmt := &parse.CommandStmt{
		Name: "size",
		Args: []parse.Expr{&parse.NumberExpr{Value: 1, Rng: n.Rng}, &parse.NumberExpr{Value: 1, Rng: n.Rng}, hExpr},
		Rng:  n.Rng,
	}
	body := []parse.Stmt{sizeStmt}

	if !centered {
		half := &parse.InfixExpr{Left: hExpr, Op: "/", Right: &parse.NumberExpr{Value: 2, Rng: n.Rng}, Rng: n.Rng}
		body = append(body, &parse.CommandStmt{
			Name: "position",
			Args: []parse.Expr{&parse.NumberExpr{Value: 0, Rng: n.Rng}, &parse.NumberExpr{Value: 0, Rng: n.Rng}, half},
			Rng:  n.Rng,
		})
	}

	if twist := argAt(n.Args, -1, "twist"); twist != nil {
		twistExpr, err := l.expr(twist)
		if err != nil {
			return nil, err
		}
		scaled := &parse.InfixExpr{Left: twistExpr, Op: "/", Right: &parse.NumberExpr{Value: 180, Rng: n.Rng}, Rng: n.Rng}
		body = append(body, &parse.CommandStmt{Name: "twist", Args: []parse.Expr{scaled}, Rng: n.Rng})
	}

	body = append(body, innerBody...)

	if slices := argAt(n.Args, -1, "slices"); slices != nil {
		slicesExpr, err := l.expr(slices)
		if err != nil {
			return nil, err
		}
		scaled := &parse.InfixExpr{Left: slicesExpr, Op: "*", Right: &parse.NumberExpr{Value: 4, Rng: n.Rng}, Rng: n.Rng}
		body = append(body, &parse.CommandStmt{Name: "detail", Args: []parse.Expr{scaled}, Rng: n.Rng})
	}

	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: "extrude", Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

// csgOrGroup implements "union|difference|intersection|group {...} -> same-
// named block".
func (l *lowerer) csgOrGroup(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	body, err := l.nextBody(n)
	if err != nil {
		return nil, err
	}
	name := n.Name
	if name != "union" && name != "difference" && name != "intersection" && name != "group" {
		name = "group"
	}
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: name, Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

func (l *lowerer) echoCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	args := make([]parse.Expr, len(n.Args))
	for i, a := range n.Args {
		e, err := l.expr(a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return &parse.CommandStmt{Name: "print", Args: args, Rng: n.Rng}, nil
}

// genericCall lowers an unrecognized module call as an invocation of a
// same-named custom block (covers calls to user-defined modules).
func (l *lowerer) genericCall(n *scadparse.ModuleCallStmt) (parse.Stmt, error) {
	var body []parse.Stmt
	for i, a := range n.Args {
		e, err := l.expr(a.Value)
		if err != nil {
			return nil, err
		}
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		body = append(body, &parse.OptionStmt{Name: l.mangle.name(name), Default: e, Rng: n.Rng})
	}
	next, err := l.nextBody(n)
	if err != nil {
		return nil, err
	}
	body = append(body, next...)
	return &parse.ExprStmt{Expr: &parse.BlockInvocationExpr{Name: l.mangle.name(n.Name), Body: body, Rng: n.Rng}, Rng: n.Rng}, nil
}

// expr translates a scadparse expression into a primary-dialect one,
// applying trig-argument unit conversion (spec.md §4.F) and identifier
// mangling along the way.
func (l *lowerer) expr(e scadparse.Expr) (parse.Expr, error) {
	switch n := e.(type) {
	case *scadparse.NumberExpr:
		return &parse.NumberExpr{Value: n.Value, Rng: n.Rng}, nil

	case *scadparse.StringExpr:
		return &parse.StringExpr{Value: n.Value, Rng: n.Rng}, nil

	case *scadparse.IdentExpr:
		switch n.Name {
		case "true", "false":
			return &parse.IdentifierExpr{Name: n.Name, Rng: n.Rng}, nil
		case "undef":
			return &parse.NumberExpr{Value: 0, Rng: n.Rng}, nil
		default:
			return &parse.IdentifierExpr{Name: n.MangledName(), Rng: n.Rng}, nil
		}

	case *scadparse.VectorExpr:
		elems := make([]parse.Expr, len(n.Elems))
		for i, el := range n.Elems {
			conv, err := l.expr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = conv
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return &parse.TupleExpr{Elems: elems, Rng: n.Rng}, nil

	case *scadparse.RangeExpr:
		lo, err := l.expr(n.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := l.expr(n.Hi)
		if err != nil {
			return nil, err
		}
		var step parse.Expr
		if n.Step != nil {
			step, err = l.expr(n.Step)
			if err != nil {
				return nil, err
			}
		}
		return &parse.RangeExpr{From: lo, To: hi, Step: step, Rng: n.Rng}, nil

	case *scadparse.PrefixExpr:
		operand, err := l.expr(n.Operand)
		if err != nil {
			return nil, err
		}
		op := n.Op
		if op == "!" {
			op = "not"
		}
		return &parse.PrefixExpr{Op: op, Operand: operand, Rng: n.Rng}, nil

	case *scadparse.InfixExpr:
		left, err := l.expr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &parse.InfixExpr{Left: left, Op: mapInfixOp(n.Op), Right: right, Rng: n.Rng}, nil

	case *scadparse.TernaryExpr:
		return nil, diag.CustomParserError(n.Rng, "ternary expressions are not yet supported", "")

	case *scadparse.IndexExpr:
		target, err := l.expr(n.Target)
		if err != nil {
			return nil, err
		}
		idx, ok := n.Index.(*scadparse.NumberExpr)
		if !ok {
			return nil, diag.CustomParserError(n.Rng, "only constant vector indices are supported", "")
		}
		return &parse.MemberExpr{Target: target, Name: axisName(int(idx.Value)), Rng: n.Rng}, nil

	case *scadparse.CallExpr:
		return l.callExpr(n)

	default:
		return nil, diag.CustomParserError(e.Range(), "unsupported secondary-dialect expression", "")
	}
}

func axisName(i int) string {
	switch i {
	case 0:
		return "x"
	case 1:
		return "y"
	case 2:
		return "z"
	default:
		return "w"
	}
}

func mapInfixOp(op string) string {
	switch op {
	case "==":
		return "="
	case "!=":
		return "<>"
	case "&&":
		return "and"
	case "||":
		return "or"
	default:
		return op
	}
}

// callExpr lowers a secondary-dialect function call expression (e.g.
// "sin(x)") into a primary-dialect CallExpr, pre/post-multiplying trig
// arguments/results by the degrees<->radians factor per spec.md §4.F.
func (l *lowerer) callExpr(n *scadparse.CallExpr) (parse.Expr, error) {
	args := make([]parse.Expr, len(n.Args))
	for i, a := range n.Args {
		e, err := l.expr(a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}

	if forwardTrig[n.Name] && len(args) == 1 {
		args[0] = &parse.InfixExpr{
			Left:  args[0],
			Op:    "*",
			Right: &parse.NumberExpr{Value: degToRadFactor, Rng: n.Rng},
			Rng:   n.Rng,
		}
		return &parse.CallExpr{Name: n.Name, Args: args, Rng: n.Rng}, nil
	}

	if inverseTrig[n.Name] && len(args) == 1 {
		inner := &parse.CallExpr{Name: n.Name[1:], Args: args, Rng: n.Rng}
		return &parse.InfixExpr{
			Left:  inner,
			Op:    "*",
			Right: &parse.NumberExpr{Value: radToDegFactor, Rng: n.Rng},
			Rng:   n.Rng,
		}, nil
	}

	return &parse.CallExpr{Name: n.Name, Args: args, Rng: n.Rng}, nil
}
