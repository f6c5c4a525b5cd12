// Package lex implements tokenization of the primary ShapeScript dialect,
// per spec.md §4.B. It is a hand-rolled single-pass scanner: ShapeScript's
// token set is small and fixed, so (unlike the teacher's pluggable,
// regex-table-driven ictiobus lexer) a direct byte scanner is the idiomatic
// fit, kept in the same token-struct shape as ictiobus/lex's lexerToken.
package lex

import (
	"fmt"

	"github.com/dekarrin/tunaq/shapescript/srange"
)

// TokenType is the closed set of ShapeScript token kinds.
type TokenType int

const (
	EOF TokenType = iota
	Terminator
	Identifier
	Keyword
	InfixOp
	PrefixOp
	Number
	String
	HexColor
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
	case Terminator:
		return "terminator"
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case InfixOp:
		return "operator"
	case PrefixOp:
		return "operator"
	case Number:
		return "number"
	case String:
		return "string"
	case HexColor:
		return "color"
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
		return "':'"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	default:
		return "unknown"
	}
}

// Keywords is the set of reserved identifiers in the primary dialect.
var Keywords = map[string]bool{
	"define": true,
	"option": true,
	"for":    true,
	"in":     true,
	"to":     true,
	"step":   true,
	"if":     true,
	"else":   true,
	"import": true,
	"true":   true,
	"false":  true,
	"and":    true,
	"or":     true,
	"not":    true,
}

// Token is a single lexeme along with its source range. Name holds the
// identifier/keyword text or the operator symbol; Str holds a decoded string
// literal's contents; Num holds a parsed number literal's value.
type Token struct {
	Type  TokenType
	Range srange.Range
	Name  string
	Str   string
	Num   float64

	// SpaceBefore records whether whitespace immediately preceded this
	// token. The lexer uses the same fact to tag an operator such as "-" as
	// prefix or infix (§4.B); the parser does not read this field.
	SpaceBefore bool

	// SpaceAfter records whether whitespace immediately follows this token.
	SpaceAfter bool
}

func (t Token) String() string {
	switch t.Type {
	case Identifier, Keyword, InfixOp, PrefixOp:
		return fmt.Sprintf("%s(%s)", t.Type, t.Name)
	case Number:
		return fmt.Sprintf("number(%v)", t.Num)
	case String:
		return fmt.Sprintf("string(%q)", t.Str)
	case HexColor:
		return fmt.Sprintf("hexColor(%s)", t.Name)
	default:
		return t.Type.String()
	}
}
