package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_All_tokenTypeSequence(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []TokenType
		expectErr bool
	}{
		{name: "empty", input: "", expect: []TokenType{EOF}},
		{name: "identifier", input: "radius", expect: []TokenType{Identifier, EOF}},
		{name: "keyword", input: "define", expect: []TokenType{Keyword, EOF}},
		{name: "number", input: "12", expect: []TokenType{Number, EOF}},
		{name: "decimal number", input: "1.5", expect: []TokenType{Number, EOF}},
		{name: "number dot ident rewinds", input: "2.foo", expect: []TokenType{Number, Dot, Identifier, EOF}},
		{name: "string", input: `"hi"`, expect: []TokenType{String, EOF}},
		{name: "hex color 6 digit", input: "#ff00aa", expect: []TokenType{HexColor, EOF}},
		{name: "hex color 3 digit", input: "#f0a", expect: []TokenType{HexColor, EOF}},
		{name: "braces and parens", input: "{()}", expect: []TokenType{OpenBrace, OpenParen, CloseParen, CloseBrace, EOF}},
		{name: "brackets comma", input: "[1, 2]", expect: []TokenType{OpenBracket, Number, Comma, Number, CloseBracket, EOF}},
		{name: "equals sign is an infix operator", input: "x = 1", expect: []TokenType{Identifier, InfixOp, Number, EOF}},
		{name: "member dot", input: "a.b", expect: []TokenType{Identifier, Dot, Identifier, EOF}},
		{name: "comparison operators", input: "<= >= <> != ==", expect: []TokenType{
			InfixOp, InfixOp, InfixOp, InfixOp, InfixOp, EOF,
		}},
		{name: "terminator collapses blank lines", input: "a\n\n\nb", expect: []TokenType{
			Identifier, Terminator, Identifier, EOF,
		}},
		{name: "bad hex digit count errors", input: "#ab", expectErr: true},
		{name: "unterminated string errors", input: `"abc`, expectErr: true},
		{name: "lone dot not before identifier errors", input: "1 . 2", expectErr: true},
		{name: "bad escape errors", input: `"\q"`, expectErr: true},
		{name: "doubled quote errors", input: `""""`, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := All(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var got []TokenType
			for _, tok := range toks {
				got = append(got, tok.Type)
			}
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_lexNumber_value(t *testing.T) {
	toks, err := All("3.25")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, 3.25, toks[0].Num)
}

func Test_lexOperator_prefixVsInfixMinus(t *testing.T) {
	// "1 -2" (space before, none after): prefix, per §4.B.
	toks, err := All("1 -2")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, PrefixOp, toks[1].Type)

	// "1-2" (no surrounding space): infix.
	toks, err = All("1-2")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, InfixOp, toks[1].Type)

	// "1 - 2" (space both sides): infix.
	toks, err = All("1 - 2")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, InfixOp, toks[1].Type)
}

func Test_All_rangeValidity(t *testing.T) {
	src := `define radius = 5`
	toks, err := All(src)
	require.NoError(t, err)

	for _, tok := range toks {
		assert.GreaterOrEqual(t, tok.Range.Start, 0)
		assert.LessOrEqual(t, tok.Range.End, len(src))
		assert.LessOrEqual(t, tok.Range.Start, tok.Range.End)
		assert.Equal(t, tok.Range.Text(src), src[tok.Range.Start:tok.Range.End])
	}
}

func Test_keyword_caseInsensitive(t *testing.T) {
	toks, err := All("DEFINE")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, Keyword, toks[0].Type)
}
