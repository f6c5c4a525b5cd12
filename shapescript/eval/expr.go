package eval

import (
	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/parse"
	"github.com/dekarrin/tunaq/shapescript/symbols"
	"github.com/dekarrin/tunaq/shapescript/value"
)

func evalExpr(ctx *Context, e parse.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *parse.NumberExpr:
		return value.NumberOf(n.Value), nil

	case *parse.StringExpr:
		return value.StringOf(n.Value), nil

	case *parse.HexColorExpr:
		return parseHexColor(n.Hex), nil

	case *parse.IdentifierExpr:
		return evalIdentifier(ctx, n)

	case *parse.TupleExpr:
		vals := make([]value.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := evalExpr(ctx, el)
			if err != nil {
				return value.Value{}, err
			}
			vals[i] = v
		}
		return value.TupleOf(vals...), nil

	case *parse.PrefixExpr:
		return evalPrefix(ctx, n)

	case *parse.InfixExpr:
		return evalInfix(ctx, n)

	case *parse.MemberExpr:
		return evalMember(ctx, n)

	case *parse.RangeExpr:
		return evalRange(ctx, n)

	case *parse.BlockInvocationExpr:
		return evalBlockInvocationExpr(ctx, n)

	case *parse.CallExpr:
		return evalCallExpr(ctx, n)

	default:
		return value.Value{}, diag.CustomParserError(e.Range(), "unsupported expression", "")
	}
}

func evalIdentifier(ctx *Context, n *parse.IdentifierExpr) (value.Value, error) {
	entry, ok := ctx.Scope.Lookup(n.Name)
	if !ok {
		return value.Value{}, diag.UnknownSymbolError(n.Range(), n.Name, ctx.Scope.Names())
	}
	switch entry.Kind {
	case symbols.ConstantKind:
		return entry.Value, nil
	case symbols.PropertyKind:
		if entry.Get == nil {
			return value.Value{}, diag.CustomParserError(n.Range(), n.Name+" is write-only", "")
		}
		return entry.Get(), nil
	default:
		return value.Value{}, diag.TypeMismatchError(n.Range(), n.Name, 0, "value", "block or command")
	}
}

func evalPrefix(ctx *Context, n *parse.PrefixExpr) (value.Value, error) {
	v, err := evalExpr(ctx, n.Operand)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case "not":
		b, ok := v.Truthy()
		if !ok {
			return value.Value{}, diag.TypeMismatchError(n.Range(), "not", 0, "boolean", v.Kind().String())
		}
		return value.BooleanOf(!b), nil
	case "-":
		if v.Kind() != value.Number {
			return value.Value{}, diag.TypeMismatchError(n.Range(), "-", 0, "number", v.Kind().String())
		}
		return value.NumberOf(-v.Num()), nil
	case "+":
		if v.Kind() != value.Number {
			return value.Value{}, diag.TypeMismatchError(n.Range(), "+", 0, "number", v.Kind().String())
		}
		return v, nil
	default:
		return value.Value{}, diag.CustomParserError(n.Range(), "unsupported prefix operator", "")
	}
}

func evalInfix(ctx *Context, n *parse.InfixExpr) (value.Value, error) {
	l, err := evalExpr(ctx, n.Left)
	if err != nil {
		return value.Value{}, err
	}
	r, err := evalExpr(ctx, n.Right)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case "=":
		return value.BooleanOf(value.Equal(l, r)), nil
	case "<>":
		return value.BooleanOf(!value.Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		return evalRelational(n, l, r)
	case "and", "or":
		lb, ok1 := l.Truthy()
		rb, ok2 := r.Truthy()
		if !ok1 {
			return value.Value{}, diag.TypeMismatchError(n.Left.Range(), n.Op, 0, "boolean", l.Kind().String())
		}
		if !ok2 {
			return value.Value{}, diag.TypeMismatchError(n.Right.Range(), n.Op, 1, "boolean", r.Kind().String())
		}
		if n.Op == "and" {
			return value.BooleanOf(lb && rb), nil
		}
		return value.BooleanOf(lb || rb), nil
	case "+", "-", "*", "/":
		return evalArithmetic(n, l, r)
	default:
		return value.Value{}, diag.CustomParserError(n.Range(), "unsupported operator "+n.Op, "")
	}
}

func evalRelational(n *parse.InfixExpr, l, r value.Value) (value.Value, error) {
	if l.Kind() != value.Number || r.Kind() != value.Number {
		return value.Value{}, diag.TypeMismatchError(n.Range(), n.Op, 0, "number", l.Kind().String())
	}
	a, b := l.Num(), r.Num()
	switch n.Op {
	case "<":
		return value.BooleanOf(a < b), nil
	case "<=":
		return value.BooleanOf(a <= b), nil
	case ">":
		return value.BooleanOf(a > b), nil
	case ">=":
		return value.BooleanOf(a >= b), nil
	}
	panic("unreachable")
}

func evalArithmetic(n *parse.InfixExpr, l, r value.Value) (value.Value, error) {
	if l.Kind() != value.Number || r.Kind() != value.Number {
		return value.Value{}, diag.TypeMismatchError(n.Range(), n.Op, 0, "number", l.Kind().String())
	}
	a, b := l.Num(), r.Num()
	switch n.Op {
	case "+":
		return value.NumberOf(a + b), nil
	case "-":
		return value.NumberOf(a - b), nil
	case "*":
		return value.NumberOf(a * b), nil
	case "/":
		return value.NumberOf(a / b), nil
	}
	panic("unreachable")
}

func evalMember(ctx *Context, n *parse.MemberExpr) (value.Value, error) {
	target, err := evalExpr(ctx, n.Target)
	if err != nil {
		return value.Value{}, err
	}
	if v, ok := value.Member(target, n.Name); ok {
		return v, nil
	}
	return value.Value{}, diag.UnknownMemberError(n.Range(), n.Name, target.Kind().String(), value.MemberOptions(target.Kind()))
}

func evalRange(ctx *Context, n *parse.RangeExpr) (value.Value, error) {
	from, err := evalExpr(ctx, n.From)
	if err != nil {
		return value.Value{}, err
	}
	to, err := evalExpr(ctx, n.To)
	if err != nil {
		return value.Value{}, err
	}
	if from.Kind() != value.Number || to.Kind() != value.Number {
		return value.Value{}, diag.TypeMismatchError(n.Range(), "range", 0, "number", from.Kind().String())
	}

	step := 1.0
	if n.Step != nil {
		stepV, err := evalExpr(ctx, n.Step)
		if err != nil {
			return value.Value{}, err
		}
		if stepV.Kind() != value.Number {
			return value.Value{}, diag.TypeMismatchError(n.Step.Range(), "step", 0, "number", stepV.Kind().String())
		}
		step = stepV.Num()
	}
	return value.RangeOf(from.Num(), to.Num(), step), nil
}

// evalCallExpr invokes a CommandKind symbol from expression position
// (see parse.CallExpr's doc comment for why this exists alongside the
// statement-form command dispatch in evalCommand).
func evalCallExpr(ctx *Context, n *parse.CallExpr) (value.Value, error) {
	entry, ok := ctx.Scope.Lookup(n.Name)
	if !ok {
		return value.Value{}, diag.UnknownSymbolError(n.Range(), n.Name, ctx.Scope.Names())
	}
	if entry.Kind != symbols.CommandKind {
		return value.Value{}, diag.TypeMismatchError(n.Range(), n.Name, 0, "command", entry.Kind.String())
	}
	args, err := evalArgsAsTuple(ctx, n.Args)
	if err != nil {
		return value.Value{}, err
	}
	coerced, err := coerceOrError(n.Range(), n.Name, 0, entry.Expected, args)
	if err != nil {
		return value.Value{}, err
	}
	return entry.Command(coerced)
}

// parseHexColor interprets a validated 3/4/6/8-digit hex string (the lexer
// has already rejected any other length) as a Color value.
func parseHexColor(hex string) value.Value {
	expand := func(s string) string {
		if len(s) == 3 || len(s) == 4 {
			out := make([]byte, 0, len(s)*2)
			for _, c := range s {
				out = append(out, byte(c), byte(c))
			}
			return string(out)
		}
		return s
	}
	hex = expand(hex)

	comp := func(s string) float64 {
		v := 0
		for _, c := range s {
			v *= 16
			switch {
			case c >= '0' && c <= '9':
				v += int(c - '0')
			case c >= 'a' && c <= 'f':
				v += int(c-'a') + 10
			case c >= 'A' && c <= 'F':
				v += int(c-'A') + 10
			}
		}
		return float64(v) / 255
	}

	r := comp(hex[0:2])
	g := comp(hex[2:4])
	b := comp(hex[4:6])
	a := 1.0
	if len(hex) == 8 {
		a = comp(hex[6:8])
	}
	return value.ColorOf(r, g, b, a)
}
