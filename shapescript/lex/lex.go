package lex

import (
	"strings"
	"unicode"

	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/srange"
)

const (
	whitespaceChars = " \t"
	operatorChars   = "+-*/<>=!?&|%^~:"
	delimiterChars  = "()[]{}"
)

// Lexer scans ShapeScript primary-dialect source text into a token stream.
// The zero value is not valid; use New.
type Lexer struct {
	src string
	pos int
}

// New returns a Lexer ready to scan src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// All scans the entire source and returns the resulting tokens, always
// terminated by a single EOF token at the empty range at end of source. If a
// lexical error is encountered, scanning stops and the error is returned
// along with the tokens produced so far (not including one for the bad
// input).
func All(src string) ([]Token, error) {
	lx := New(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func isLineBoundary(c byte) bool {
	return c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOperatorChar(c byte) bool {
	return strings.IndexByte(operatorChars, c) >= 0
}

// peekAt returns the byte at pos+offset, or 0 if out of range.
func (lx *Lexer) peekAt(offset int) byte {
	ix := lx.pos + offset
	if ix < 0 || ix >= len(lx.src) {
		return 0
	}
	return lx.src[ix]
}

func (lx *Lexer) atEOF() bool {
	return lx.pos >= len(lx.src)
}

// Next scans and returns the next token. Once EOF has been returned, further
// calls continue returning EOF tokens at the same empty range.
func (lx *Lexer) Next() (Token, error) {
	spaceBefore := lx.skipSpaces()

	if lx.atEOF() {
		r := srange.New(len(lx.src), len(lx.src))
		return Token{Type: EOF, Range: r, SpaceBefore: spaceBefore}, nil
	}

	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case isLineBoundary(c):
		lx.skipLineBoundaries()
		return Token{Type: Terminator, Range: srange.New(start, lx.pos), SpaceBefore: spaceBefore}, nil

	case isDigit(c):
		return lx.lexNumber(start, spaceBefore)

	case c == '"':
		return lx.lexString(start, spaceBefore)

	case c == '#':
		return lx.lexHexColor(start, spaceBefore)

	case isIdentStart(c):
		return lx.lexIdentifier(start, spaceBefore)

	case c == '.':
		return lx.lexDot(start, spaceBefore)

	case c == '{':
		lx.pos++
		return lx.simple(OpenBrace, start, spaceBefore), nil
	case c == '}':
		lx.pos++
		return lx.simple(CloseBrace, start, spaceBefore), nil
	case c == '(':
		lx.pos++
		return lx.simple(OpenParen, start, spaceBefore), nil
	case c == ')':
		lx.pos++
		return lx.simple(CloseParen, start, spaceBefore), nil
	case c == '[':
		lx.pos++
		return lx.simple(OpenBracket, start, spaceBefore), nil
	case c == ']':
		lx.pos++
		return lx.simple(CloseBracket, start, spaceBefore), nil
	case c == ',':
		lx.pos++
		return lx.simple(Comma, start, spaceBefore), nil

	case isOperatorChar(c):
		return lx.lexOperator(start, spaceBefore)

	default:
		lx.pos++
		r := srange.New(start, lx.pos)
		return Token{}, diag.UnexpectedTokenError(r, string(c))
	}
}

func (lx *Lexer) simple(t TokenType, start int, spaceBefore bool) Token {
	return Token{Type: t, Range: srange.New(start, lx.pos), SpaceBefore: spaceBefore}
}

// skipSpaces consumes horizontal whitespace (not line boundaries) and
// reports whether any was consumed.
func (lx *Lexer) skipSpaces() bool {
	any := false
	for !lx.atEOF() && strings.IndexByte(whitespaceChars, lx.src[lx.pos]) >= 0 {
		lx.pos++
		any = true
	}
	return any
}

// skipLineBoundaries consumes one or more consecutive line boundaries
// (collapsing blank lines into a single Terminator), along with any
// interleaved horizontal whitespace.
func (lx *Lexer) skipLineBoundaries() {
	for !lx.atEOF() {
		c := lx.src[lx.pos]
		if c == '\r' {
			lx.pos++
			if !lx.atEOF() && lx.src[lx.pos] == '\n' {
				lx.pos++
			}
			continue
		}
		if c == '\n' {
			lx.pos++
			continue
		}
		if strings.IndexByte(whitespaceChars, c) >= 0 {
			lx.pos++
			continue
		}
		break
	}
}

func (lx *Lexer) lexNumber(start int, spaceBefore bool) (Token, error) {
	for !lx.atEOF() && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}

	if !lx.atEOF() && lx.src[lx.pos] == '.' {
		// rewind rule: "2.foo" lexes as number(2), '.', identifier(foo)
		nextAfterDot := lx.peekAt(1)
		if !isIdentStart(nextAfterDot) {
			lx.pos++ // consume '.'
			for !lx.atEOF() && isDigit(lx.src[lx.pos]) {
				lx.pos++
			}
		}
	}

	lexeme := lx.src[start:lx.pos]
	var f float64
	if _, err := parseFloat(lexeme, &f); err != nil {
		r := srange.New(start, lx.pos)
		return Token{}, diag.InvalidNumberError(r, lexeme)
	}

	return Token{Type: Number, Range: srange.New(start, lx.pos), Num: f, SpaceBefore: spaceBefore}, nil
}

func (lx *Lexer) lexString(start int, spaceBefore bool) (Token, error) {
	lx.pos++ // consume opening quote

	var sb strings.Builder
	for {
		if lx.atEOF() {
			return Token{}, diag.UnterminatedStringError(srange.New(start, lx.pos))
		}
		c := lx.src[lx.pos]
		if isLineBoundary(c) {
			return Token{}, diag.UnterminatedStringError(srange.New(start, lx.pos))
		}
		if c == '"' {
			lx.pos++
			break
		}
		if c == '\\' {
			escStart := lx.pos
			lx.pos++
			if lx.atEOF() {
				return Token{}, diag.UnterminatedStringError(srange.New(start, lx.pos))
			}
			esc := lx.src[lx.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				r := srange.New(escStart, lx.pos+1)
				return Token{}, diag.InvalidEscapeSequenceError(r, lx.src[escStart:lx.pos+1])
			}
			lx.pos++
			continue
		}
		sb.WriteByte(c)
		lx.pos++
	}

	// "" immediately adjacent to a just-closed string is an attempt at the
	// doubled-quote escape convention, which ShapeScript does not support.
	if !lx.atEOF() && lx.src[lx.pos] == '"' {
		r := srange.New(lx.pos, lx.pos+1)
		return Token{}, diag.InvalidEscapeSequenceError(r, `""`)
	}

	return Token{Type: String, Range: srange.New(start, lx.pos), Str: sb.String(), SpaceBefore: spaceBefore}, nil
}

func (lx *Lexer) lexHexColor(start int, spaceBefore bool) (Token, error) {
	lx.pos++ // consume '#'
	digitsStart := lx.pos
	for !lx.atEOF() && isHexDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	n := lx.pos - digitsStart
	if n != 3 && n != 4 && n != 6 && n != 8 {
		r := srange.New(start, lx.pos)
		return Token{}, diag.UnexpectedTokenError(r, lx.src[start:lx.pos]).
			WithHint("Hex colors must have 3, 4, 6, or 8 hex digits after the '#'.")
	}
	return Token{Type: HexColor, Range: srange.New(start, lx.pos), Name: lx.src[start:lx.pos], SpaceBefore: spaceBefore}, nil
}

func (lx *Lexer) lexIdentifier(start int, spaceBefore bool) (Token, error) {
	for !lx.atEOF() && isIdentCont(lx.src[lx.pos]) {
		lx.pos++
	}
	name := lx.src[start:lx.pos]
	t := Identifier
	if Keywords[strings.ToLower(name)] {
		t = Keyword
	}
	return Token{Type: t, Range: srange.New(start, lx.pos), Name: name, SpaceBefore: spaceBefore}, nil
}

// lexDot handles a standalone '.': emitted as a Dot token only when
// immediately followed (no whitespace) by an identifier-start character.
func (lx *Lexer) lexDot(start int, spaceBefore bool) (Token, error) {
	next := lx.peekAt(1)
	if !isIdentStart(next) {
		lx.pos++
		r := srange.New(start, lx.pos)
		return Token{}, diag.UnexpectedTokenError(r, ".")
	}
	lx.pos++
	return Token{Type: Dot, Range: srange.New(start, lx.pos), SpaceBefore: spaceBefore}, nil
}

// operator run lengths, longest first, matching the greedy tokenization
// rule of §4.B/§4.C (only the symbols meaningful to the primary dialect are
// recognized here; scadlex has its own superset).
var operatorSymbols = []string{
	"<=", ">=", "<>", "!=", "==",
	"<", ">", "=", "+", "-", "*", "/", "?", "!", "&", "|", "%", "^", "~", ":",
}

func (lx *Lexer) lexOperator(start int, spaceBefore bool) (Token, error) {
	for _, sym := range operatorSymbols {
		if strings.HasPrefix(lx.src[lx.pos:], sym) {
			lx.pos += len(sym)

			spaceAfter := lx.atEOF() || strings.IndexByte(whitespaceChars+"\r\n", lx.src[lx.pos]) >= 0

			t := InfixOp
			switch sym {
			case ":":
				t = Colon
			case "-", "+":
				// §4.B: tight against the following token but preceded by
				// whitespace -> tagged as a prefix operator; the default
				// (including no surrounding whitespace, as in "1-2") is
				// infix.
				if spaceBefore && !spaceAfter {
					t = PrefixOp
				}
			}

			tok := Token{Type: t, Range: srange.New(start, lx.pos), Name: sym, SpaceBefore: spaceBefore, SpaceAfter: spaceAfter}
			return tok, nil
		}
	}
	lx.pos++
	r := srange.New(start, lx.pos)
	return Token{}, diag.UnexpectedTokenError(r, string(lx.src[start]))
}

// parseFloat is a minimal decimal-only float parser (ShapeScript numbers
// never use exponents or hex float notation).
func parseFloat(s string, out *float64) (int, error) {
	var intPart, fracPart string
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
	} else {
		intPart = s
	}

	val := 0.0
	for _, c := range intPart {
		if !unicode.IsDigit(c) {
			return 0, errInvalidNumber
		}
		val = val*10 + float64(c-'0')
	}

	scale := 0.1
	for _, c := range fracPart {
		if !unicode.IsDigit(c) {
			return 0, errInvalidNumber
		}
		val += float64(c-'0') * scale
		scale /= 10
	}

	*out = val
	return len(s), nil
}

type invalidNumberErr struct{}

func (invalidNumberErr) Error() string { return "invalid number" }

var errInvalidNumber = invalidNumberErr{}
