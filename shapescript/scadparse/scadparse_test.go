package scadparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_statementShapes(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		check     func(t *testing.T, stmts []Stmt)
		expectErr bool
	}{
		{
			name: "bare module call",
			src:  "cube(10);",
			check: func(t *testing.T, stmts []Stmt) {
				require.Len(t, stmts, 1)
				call, ok := stmts[0].(*ModuleCallStmt)
				require.True(t, ok)
				assert.Equal(t, "cube", call.Name)
				require.Len(t, call.Args, 1)
				assert.Nil(t, call.Next)
				assert.Nil(t, call.Body)
			},
		},
		{
			name: "module call with brace body",
			src:  "difference() { cube(10); sphere(5); }",
			check: func(t *testing.T, stmts []Stmt) {
				call, ok := stmts[0].(*ModuleCallStmt)
				require.True(t, ok)
				assert.Equal(t, "difference", call.Name)
				assert.Len(t, call.Body, 2)
			},
		},
		{
			name: "chained modifier call with trailing statement",
			src:  "translate([1,0,0]) cube(10);",
			check: func(t *testing.T, stmts []Stmt) {
				call, ok := stmts[0].(*ModuleCallStmt)
				require.True(t, ok)
				assert.Equal(t, "translate", call.Name)
				require.NotNil(t, call.Next)
				next, ok := call.Next.(*ModuleCallStmt)
				require.True(t, ok)
				assert.Equal(t, "cube", next.Name)
			},
		},
		{
			name: "named argument",
			src:  "cube(size = 10);",
			check: func(t *testing.T, stmts []Stmt) {
				call := stmts[0].(*ModuleCallStmt)
				require.Len(t, call.Args, 1)
				assert.Equal(t, "size", call.Args[0].Name)
			},
		},
		{
			name: "assignment statement",
			src:  "r = 5;",
			check: func(t *testing.T, stmts []Stmt) {
				a, ok := stmts[0].(*AssignStmt)
				require.True(t, ok)
				assert.Equal(t, "r", a.Name)
			},
		},
		{
			name: "module definition",
			src:  "module thing(a, b = 2) { cube(a); }",
			check: func(t *testing.T, stmts []Stmt) {
				m, ok := stmts[0].(*ModuleDefStmt)
				require.True(t, ok)
				assert.Equal(t, "thing", m.Name)
				assert.Equal(t, []string{"a", "b"}, m.Params)
				assert.Len(t, m.Body, 1)
			},
		},
		{
			name: "function definition",
			src:  "function double(x) = x * 2;",
			check: func(t *testing.T, stmts []Stmt) {
				f, ok := stmts[0].(*FunctionDefStmt)
				require.True(t, ok)
				assert.Equal(t, "double", f.Name)
				require.NotNil(t, f.Expr)
			},
		},
		{
			name: "for loop",
			src:  "for (i = [0:5]) cube(i);",
			check: func(t *testing.T, stmts []Stmt) {
				f, ok := stmts[0].(*ForStmt)
				require.True(t, ok)
				assert.Equal(t, "i", f.Var)
				_, isRange := f.In.(*RangeExpr)
				assert.True(t, isRange)
			},
		},
		{
			name: "if else",
			src:  "if (x > 1) cube(1); else sphere(1);",
			check: func(t *testing.T, stmts []Stmt) {
				ifs, ok := stmts[0].(*IfStmt)
				require.True(t, ok)
				require.NotNil(t, ifs.Else)
			},
		},
		{
			name: "standalone brace block",
			src:  "{ cube(1); sphere(1); }",
			check: func(t *testing.T, stmts []Stmt) {
				b, ok := stmts[0].(*BlockStmt)
				require.True(t, ok)
				assert.Len(t, b.Stmts, 2)
			},
		},
		{
			name:      "unexpected token at statement position errors",
			src:       "}",
			expectErr: true,
		},
		{
			name:      "missing closing paren errors",
			src:       "cube(10;",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Parse(tc.src, "test.scad")
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, prog.Stmts)
		})
	}
}

func Test_parseExpr_precedence(t *testing.T) {
	prog, err := Parse("x = 1 + 2 * 3;", "test.scad")
	require.NoError(t, err)
	a := prog.Stmts[0].(*AssignStmt)
	top, ok := a.Expr.(*InfixExpr)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	_, rightIsMul := top.Right.(*InfixExpr)
	assert.True(t, rightIsMul)
}

func Test_parsePow_rightAssociative(t *testing.T) {
	prog, err := Parse("x = 2 ^ 3 ^ 2;", "test.scad")
	require.NoError(t, err)
	a := prog.Stmts[0].(*AssignStmt)
	top, ok := a.Expr.(*InfixExpr)
	require.True(t, ok)
	assert.Equal(t, "^", top.Op)
	_, rightIsPow := top.Right.(*InfixExpr)
	assert.True(t, rightIsPow, "2^3^2 should bind as 2^(3^2)")
}

func Test_parsePrefix_bangAndMinus(t *testing.T) {
	prog, err := Parse("x = !y;", "test.scad")
	require.NoError(t, err)
	a := prog.Stmts[0].(*AssignStmt)
	pre, ok := a.Expr.(*PrefixExpr)
	require.True(t, ok)
	assert.Equal(t, "!", pre.Op)

	prog, err = Parse("x = -y;", "test.scad")
	require.NoError(t, err)
	a = prog.Stmts[0].(*AssignStmt)
	pre, ok = a.Expr.(*PrefixExpr)
	require.True(t, ok)
	assert.Equal(t, "-", pre.Op)
}

func Test_parsePostfix_index(t *testing.T) {
	prog, err := Parse("x = v[1];", "test.scad")
	require.NoError(t, err)
	a := prog.Stmts[0].(*AssignStmt)
	idx, ok := a.Expr.(*IndexExpr)
	require.True(t, ok)
	_, targetIsIdent := idx.Target.(*IdentExpr)
	assert.True(t, targetIsIdent)
}

func Test_parseAtom_callExpr(t *testing.T) {
	prog, err := Parse("x = sin(90);", "test.scad")
	require.NoError(t, err)
	a := prog.Stmts[0].(*AssignStmt)
	call, ok := a.Expr.(*CallExpr)
	require.True(t, ok)
	assert.Equal(t, "sin", call.Name)
	assert.Len(t, call.Args, 1)
}

func Test_parseBracket_vectorAndRange(t *testing.T) {
	prog, err := Parse("x = [1, 2, 3];", "test.scad")
	require.NoError(t, err)
	a := prog.Stmts[0].(*AssignStmt)
	vec, ok := a.Expr.(*VectorExpr)
	require.True(t, ok)
	assert.Len(t, vec.Elems, 3)

	prog, err = Parse("x = [0:2:10];", "test.scad")
	require.NoError(t, err)
	a = prog.Stmts[0].(*AssignStmt)
	rng, ok := a.Expr.(*RangeExpr)
	require.True(t, ok)
	require.NotNil(t, rng.Step)

	prog, err = Parse("x = [];", "test.scad")
	require.NoError(t, err)
	a = prog.Stmts[0].(*AssignStmt)
	vec, ok = a.Expr.(*VectorExpr)
	require.True(t, ok)
	assert.Len(t, vec.Elems, 0)
}

func Test_MangleIdent(t *testing.T) {
	testCases := []struct {
		name, in, expect string
	}{
		{name: "dollar variable", in: "$fn", expect: "dollar_fn"},
		{name: "underscore-prefixed", in: "_x", expect: "underscore_x"},
		{name: "collides with a standard symbol", in: "cube", expect: "cube_"},
		{name: "ordinary name is untouched", in: "radius", expect: "radius"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, MangleIdent(tc.in))
		})
	}
}

func Test_IdentExpr_MangledName(t *testing.T) {
	e := &IdentExpr{Name: "$fn"}
	assert.Equal(t, "dollar_fn", e.MangledName())
}
