package scadlex

import (
	"strings"

	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/srange"
)

const whitespaceChars = " \t\r\n"

// Lexer scans secondary-dialect (OpenSCAD-style) source text. The zero
// value is not valid; use New.
type Lexer struct {
	src string
	pos int
}

func New(src string) *Lexer {
	return &Lexer{src: src}
}

// All scans the entire source and returns the resulting tokens, ending with
// EOF. No synthetic parentheses are injected.
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

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

func (lx *Lexer) atEOF() bool { return lx.pos >= len(lx.src) }
func (lx *Lexer) peekAt(offset int) byte {
	ix := lx.pos + offset
	if ix < 0 || ix >= len(lx.src) {
		return 0
	}
	return lx.src[ix]
}

// Next scans and returns the next token. It injects no synthetic OpenParen/
// CloseParen pair: an identifier directly before "(" is returned as a plain
// Identifier with its plain name, whatever token preceded it, and
// scadparse.Parser does not add such parentheses either.
func (lx *Lexer) Next() (Token, error) {
	lx.skipSpacesAndComments()

	if lx.atEOF() {
		return Token{Type: EOF, Range: srange.New(len(lx.src), len(lx.src))}, nil
	}

	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case c == ';':
		lx.pos++
		return lx.simple(Semicolon, start), nil
	case isDigit(c):
		return lx.lexNumber(start)
	case c == '"':
		return lx.lexString(start)
	case c == '$' && isIdentStart(lx.peekAt(1)):
		lx.pos++
		return lx.lexIdentifier(start)
	case isIdentStart(c):
		return lx.lexIdentifier(start)
	case c == '.':
		lx.pos++
		return lx.simple(Dot, start), nil
	case c == '{':
		lx.pos++
		return lx.simple(OpenBrace, start), nil
	case c == '}':
		lx.pos++
		return lx.simple(CloseBrace, start), nil
	case c == '(':
		lx.pos++
		return lx.simple(OpenParen, start), nil
	case c == ')':
		lx.pos++
		return lx.simple(CloseParen, start), nil
	case c == '[':
		lx.pos++
		return lx.simple(OpenBracket, start), nil
	case c == ']':
		lx.pos++
		return lx.simple(CloseBracket, start), nil
	case c == ',':
		lx.pos++
		return lx.simple(Comma, start), nil
	case c == ':':
		lx.pos++
		return lx.simple(Colon, start), nil
	case c == '!':
		if lx.peekAt(1) == '=' {
			lx.pos += 2
			return lx.simple(InfixOp, start), nil
		}
		lx.pos++
		return lx.simple(Bang, start), nil
	default:
		return lx.lexOperator(start)
	}
}

func (lx *Lexer) simple(t TokenType, start int) Token {
	return Token{Type: t, Range: srange.New(start, lx.pos), Name: lx.src[start:lx.pos]}
}

func (lx *Lexer) skipSpacesAndComments() {
	for !lx.atEOF() {
		c := lx.src[lx.pos]
		if strings.IndexByte(whitespaceChars, c) >= 0 {
			lx.pos++
			continue
		}
		if c == '/' && lx.peekAt(1) == '/' {
			for !lx.atEOF() && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}
		if c == '/' && lx.peekAt(1) == '*' {
			lx.pos += 2
			for !lx.atEOF() && !(lx.src[lx.pos] == '*' && lx.peekAt(1) == '/') {
				lx.pos++
			}
			if !lx.atEOF() {
				lx.pos += 2
			}
			continue
		}
		break
	}
}

func (lx *Lexer) lexNumber(start int) (Token, error) {
	for !lx.atEOF() && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if !lx.atEOF() && lx.src[lx.pos] == '.' && isDigit(lx.peekAt(1)) {
		lx.pos++
		for !lx.atEOF() && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}
	lexeme := lx.src[start:lx.pos]
	var f float64
	if err := parseDecimal(lexeme, &f); err != nil {
		return Token{}, diag.InvalidNumberError(srange.New(start, lx.pos), lexeme)
	}
	return Token{Type: Number, Range: srange.New(start, lx.pos), Num: f}, nil
}

func parseDecimal(s string, out *float64) error {
	var intPart, fracPart string
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
	} else {
		intPart = s
	}
	val := 0.0
	for _, c := range intPart {
		if c < '0' || c > '9' {
			return errInvalidNumber
		}
		val = val*10 + float64(c-'0')
	}
	scale := 0.1
	for _, c := range fracPart {
		if c < '0' || c > '9' {
			return errInvalidNumber
		}
		val += float64(c-'0') * scale
		scale /= 10
	}
	*out = val
	return nil
}

type invalidNumberErr struct{}

func (invalidNumberErr) Error() string { return "invalid number" }

var errInvalidNumber = invalidNumberErr{}

func (lx *Lexer) lexString(start int) (Token, error) {
	lx.pos++
	var sb strings.Builder
	for {
		if lx.atEOF() || lx.src[lx.pos] == '\n' {
			return Token{}, diag.UnterminatedStringError(srange.New(start, lx.pos))
		}
		c := lx.src[lx.pos]
		if c == '"' {
			lx.pos++
			break
		}
		if c == '\\' {
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
				return Token{}, diag.InvalidEscapeSequenceError(srange.New(lx.pos-1, lx.pos+1), lx.src[lx.pos-1:lx.pos+1])
			}
			lx.pos++
			continue
		}
		sb.WriteByte(c)
		lx.pos++
	}
	return Token{Type: String, Range: srange.New(start, lx.pos), Str: sb.String()}, nil
}

func (lx *Lexer) lexIdentifier(start int) (Token, error) {
	for !lx.atEOF() && isIdentCont(lx.src[lx.pos]) {
		lx.pos++
	}
	name := lx.src[start:lx.pos]
	t := Identifier
	if Keywords[name] {
		t = Keyword
	}
	return Token{Type: t, Range: srange.New(start, lx.pos), Name: name}, nil
}

var operatorSymbols = []string{
	"==", "!=", "<=", ">=", "&&", "||",
	"<", ">", "=", "+", "-", "*", "/", "%", "^",
}

func (lx *Lexer) lexOperator(start int) (Token, error) {
	for _, sym := range operatorSymbols {
		if strings.HasPrefix(lx.src[lx.pos:], sym) {
			lx.pos += len(sym)
			t := InfixOp
			if sym == "=" {
				t = Assign
			}
			return Token{Type: t, Range: srange.New(start, lx.pos), Name: sym}, nil
		}
	}
	lx.pos++
	return Token{}, diag.UnexpectedTokenError(srange.New(start, lx.pos), string(lx.src[start]))
}
