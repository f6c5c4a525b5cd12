package scadlex

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
		{name: "identifier", input: "cube", expect: []TokenType{Identifier, EOF}},
		{name: "keyword", input: "module", expect: []TokenType{Keyword, EOF}},
		{name: "number", input: "12", expect: []TokenType{Number, EOF}},
		{name: "decimal number", input: "1.5", expect: []TokenType{Number, EOF}},
		{name: "string", input: `"hi"`, expect: []TokenType{String, EOF}},
		{name: "module call shape", input: "cube(10);", expect: []TokenType{
			Identifier, OpenParen, Number, CloseParen, Semicolon, EOF,
		}},
		{name: "block braces", input: "{ }", expect: []TokenType{OpenBrace, CloseBrace, EOF}},
		{name: "vector literal", input: "[1, 2, 3]", expect: []TokenType{
			OpenBracket, Number, Comma, Number, Comma, Number, CloseBracket, EOF,
		}},
		{name: "assign vs equality", input: "x = 1; x == 1;", expect: []TokenType{
			Identifier, Assign, Number, Semicolon,
			Identifier, InfixOp, Number, Semicolon, EOF,
		}},
		{name: "bang modifier vs not-equal", input: "!cube() x != 1", expect: []TokenType{
			Bang, Identifier, OpenParen, CloseParen,
			Identifier, InfixOp, Number, EOF,
		}},
		{name: "member dot", input: "a.b", expect: []TokenType{Identifier, Dot, Identifier, EOF}},
		{name: "colon", input: "x : 2", expect: []TokenType{
			Identifier, Colon, Number, EOF,
		}},
		{name: "comparison operators", input: "<= >= && ||", expect: []TokenType{
			InfixOp, InfixOp, InfixOp, InfixOp, EOF,
		}},
		{name: "line comment skipped", input: "cube(); // trailing\nsphere();", expect: []TokenType{
			Identifier, OpenParen, CloseParen, Semicolon,
			Identifier, OpenParen, CloseParen, Semicolon, EOF,
		}},
		{name: "block comment skipped", input: "cube(/* size */10);", expect: []TokenType{
			Identifier, OpenParen, Number, CloseParen, Semicolon, EOF,
		}},
		{name: "unterminated block comment consumes to EOF", input: "cube(); /* never closed", expect: []TokenType{
			Identifier, OpenParen, CloseParen, Semicolon, EOF,
		}},
		{name: "unterminated string errors", input: `"abc`, expectErr: true},
		{name: "unknown character errors", input: "@", expectErr: true},
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

func Test_lexString_escapes(t *testing.T) {
	toks, err := All(`"a\nb\\c\"d"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\\c\"d", toks[0].Str)
}

func Test_lexString_badEscapeErrors(t *testing.T) {
	_, err := All(`"\q"`)
	assert.Error(t, err)
}

func Test_lexNumber_value(t *testing.T) {
	toks, err := All("3.25")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, 3.25, toks[0].Num)
}

func Test_keyword_isCaseSensitive(t *testing.T) {
	// Unlike the primary dialect, the secondary dialect's keyword set is
	// matched case-sensitively: OpenSCAD identifiers are case-sensitive.
	toks, err := All("MODULE")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, Identifier, toks[0].Type)
}

func Test_All_rangeValidity(t *testing.T) {
	src := `module foo(r) { sphere(r); }`
	toks, err := All(src)
	require.NoError(t, err)

	for _, tok := range toks {
		assert.GreaterOrEqual(t, tok.Range.Start, 0)
		assert.LessOrEqual(t, tok.Range.End, len(src))
		assert.LessOrEqual(t, tok.Range.Start, tok.Range.End)
	}
}
