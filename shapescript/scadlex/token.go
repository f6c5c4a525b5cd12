// Package scadlex implements tokenization of the secondary, OpenSCAD-style
// dialect (spec.md §4.C). It shares lex.TokenType's shape conventions but
// is its own scanner, since the secondary dialect's terminator, operator
// set, and comment syntax all differ from the primary dialect's.
package scadlex

import (
	"fmt"

	"github.com/dekarrin/tunaq/shapescript/srange"
)

type TokenType int

const (
	EOF TokenType = iota
	Semicolon
	Identifier
	Keyword
	InfixOp
	Bang // unary "!"
	Number
	String
	OpenBrace
	CloseBrace
	OpenParen
	CloseParen
	OpenBracket
	CloseBracket
	Assign
	Colon
	Comma
	Dot
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case Semicolon:
		return "';'"
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case InfixOp:
		return "operator"
	case Bang:
		return "'!'"
	case Number:
		return "number"
	case String:
		return "string"
	case OpenBrace:
		return "'{'"
	case CloseBrace:
		return "'}'"
	case OpenParen:
		return "'('"
	case CloseParen:
		return "')'"
	case OpenBracket:
		return "'['"
	case CloseBracket:
		return "']'"
	case Assign:
		return "'='"
	case Colon:
		return "'?' ':'"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	default:
		return "unknown"
	}
}

// Keywords is the secondary dialect's reserved-word set.
var Keywords = map[string]bool{
	"module": true, "function": true, "if": true, "else": true,
	"for": true, "let": true, "true": true, "false": true, "undef": true,
}

// Token mirrors lex.Token's field shape. SpaceBefore is retained for
// consistency with lex.Token even though the secondary dialect's grammar
// does not need it to disambiguate operators (see lexOperator).
type Token struct {
	Type  TokenType
	Range srange.Range
	Name  string
	Str   string
	Num   float64

	SpaceBefore bool
}

func (t Token) String() string {
	switch t.Type {
	case Identifier, Keyword, InfixOp:
		return fmt.Sprintf("%s(%s)", t.Type, t.Name)
	case Number:
		return fmt.Sprintf("number(%v)", t.Num)
	case String:
		return fmt.Sprintf("string(%q)", t.Str)
	default:
		return t.Type.String()
	}
}
