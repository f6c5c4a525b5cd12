// Package scadparse implements the secondary, OpenSCAD-style dialect's
// recursive-descent parser (spec.md §4.E), producing a small C-like AST
// that shapescript/lower then translates into the primary dialect's AST.
package scadparse

import (
	"strings"

	"github.com/dekarrin/tunaq/shapescript/srange"
)

type Stmt interface {
	scadStmt()
	Range() srange.Range
}

type Expr interface {
	scadExpr()
	Range() srange.Range
}

// Arg is one call-site argument, optionally named ("a = expr" per §4.E).
type Arg struct {
	Name  string
	Value Expr
}

// ModuleCallStmt is "name(args);" or "name(args) stmt" or "name(args) { stmts }".
// Exactly one of Next/Body is set (or neither, for a bare "name(args);").
type ModuleCallStmt struct {
	Name string
	Args []Arg
	Next Stmt
	Body []Stmt
	Rng  srange.Range
}

func (s *ModuleCallStmt) scadStmt()          {}
func (s *ModuleCallStmt) Range() srange.Range { return s.Rng }

// AssignStmt is the statement "name = expr;". Loop variables are not
// AssignStmts; ForStmt carries its own Var.
type AssignStmt struct {
	Name string
	Expr Expr
	Rng  srange.Range
}

func (s *AssignStmt) scadStmt()          {}
func (s *AssignStmt) Range() srange.Range { return s.Rng }

type ForStmt struct {
	Var  string
	In   Expr
	Body Stmt
	Rng  srange.Range
}

func (s *ForStmt) scadStmt()          {}
func (s *ForStmt) Range() srange.Range { return s.Rng }

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
	Rng  srange.Range
}

func (s *IfStmt) scadStmt()          {}
func (s *IfStmt) Range() srange.Range { return s.Rng }

type BlockStmt struct {
	Stmts []Stmt
	Rng   srange.Range
}

func (s *BlockStmt) scadStmt()          {}
func (s *BlockStmt) Range() srange.Range { return s.Rng }

type ModuleDefStmt struct {
	Name   string
	Params []string
	Body   []Stmt
	Rng    srange.Range
}

func (s *ModuleDefStmt) scadStmt()          {}
func (s *ModuleDefStmt) Range() srange.Range { return s.Rng }

type FunctionDefStmt struct {
	Name   string
	Params []string
	Expr   Expr
	Rng    srange.Range
}

func (s *FunctionDefStmt) scadStmt()          {}
func (s *FunctionDefStmt) Range() srange.Range { return s.Rng }

// --- Expressions ---

type NumberExpr struct {
	Value float64
	Rng   srange.Range
}

func (e *NumberExpr) scadExpr()          {}
func (e *NumberExpr) Range() srange.Range { return e.Rng }

type StringExpr struct {
	Value string
	Rng   srange.Range
}

func (e *StringExpr) scadExpr()          {}
func (e *StringExpr) Range() srange.Range { return e.Rng }

type IdentExpr struct {
	Name string
	Rng  srange.Range
}

func (e *IdentExpr) scadExpr()          {}
func (e *IdentExpr) Range() srange.Range { return e.Rng }

// MangledName applies spec.md §4.F's identifier-mangling rule.
func (e *IdentExpr) MangledName() string {
	return MangleIdent(e.Name)
}

// MangleIdent implements "$fn -> dollar_fn, _x -> underscore_x", and
// suffixes _ to a name in standardSymbolNames. Only the names listed there
// are suffixed; other primary-dialect built-in names (cone, union, sin,
// print, pi, ...) are returned unchanged.
func MangleIdent(name string) string {
	if strings.HasPrefix(name, "$") {
		return "dollar_" + name[1:]
	}
	if strings.HasPrefix(name, "_") {
		return "underscore_" + name[1:]
	}
	if standardSymbolNames[name] {
		return name + "_"
	}
	return name
}

var standardSymbolNames = map[string]bool{
	"color": true, "size": true, "position": true, "orientation": true,
	"detail": true, "group": true, "cube": true, "sphere": true,
}

type VectorExpr struct {
	Elems []Expr
	Rng   srange.Range
}

func (e *VectorExpr) scadExpr()          {}
func (e *VectorExpr) Range() srange.Range { return e.Rng }

// RangeExpr is "[lo:hi]" or "[lo:step:hi]".
type RangeExpr struct {
	Lo, Step, Hi Expr
	Rng          srange.Range
}

func (e *RangeExpr) scadExpr()          {}
func (e *RangeExpr) Range() srange.Range { return e.Rng }

type PrefixExpr struct {
	Op      string
	Operand Expr
	Rng     srange.Range
}

func (e *PrefixExpr) scadExpr()          {}
func (e *PrefixExpr) Range() srange.Range { return e.Rng }

type InfixExpr struct {
	Left  Expr
	Op    string
	Right Expr
	Rng   srange.Range
}

func (e *InfixExpr) scadExpr()          {}
func (e *InfixExpr) Range() srange.Range { return e.Rng }

type TernaryExpr struct {
	Cond, Then, Else Expr
	Rng              srange.Range
}

func (e *TernaryExpr) scadExpr()          {}
func (e *TernaryExpr) Range() srange.Range { return e.Rng }

type CallExpr struct {
	Name string
	Args []Arg
	Rng  srange.Range
}

func (e *CallExpr) scadExpr()          {}
func (e *CallExpr) Range() srange.Range { return e.Rng }

type IndexExpr struct {
	Target Expr
	Index  Expr
	Rng    srange.Range
}

func (e *IndexExpr) scadExpr()          {}
func (e *IndexExpr) Range() srange.Range { return e.Rng }
