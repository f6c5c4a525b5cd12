package parse

import (
	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/lex"
	"github.com/dekarrin/tunaq/shapescript/srange"
)

// Parser is a recursive-descent parser over a primary-dialect token stream,
// per the grammar in spec.md §4.D. The zero value is not valid; use New.
type Parser struct {
	toks []lex.Token
	pos  int
}

// New returns a Parser over an already-lexed token stream.
func New(toks []lex.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes and parses src in full, returning the resulting Program.
func Parse(src, fileURL string) (*Program, error) {
	toks, err := lex.All(src)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	stmts, err := p.parseStmts(nil)
	if err != nil {
		return nil, err
	}
	return &Program{Source: src, FileURL: fileURL, Stmts: stmts}, nil
}

func (p *Parser) cur() lex.Token {
	return p.toks[p.pos]
}

func (p *Parser) at(t lex.TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) atKeyword(name string) bool {
	c := p.cur()
	return c.Type == lex.Keyword && c.Name == name
}

func (p *Parser) advance() lex.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// skipTerminators consumes any run of statement terminators (newlines).
func (p *Parser) skipTerminators() {
	for p.at(lex.Terminator) {
		p.advance()
	}
}

func (p *Parser) expect(t lex.TokenType, expected string) (lex.Token, error) {
	if !p.at(t) {
		return lex.Token{}, diag.UnexpectedParserTokenError(p.cur().Range, p.cur().String(), expected)
	}
	return p.advance(), nil
}

// --- Statements ---

// parseStmts parses statements until EOF or, if stop is non-nil, until the
// current token satisfies stop (used for "}"-terminated bodies).
func (p *Parser) parseStmts(stop func(lex.Token) bool) ([]Stmt, error) {
	var stmts []Stmt
	p.skipTerminators()
	for !p.at(lex.EOF) {
		if stop != nil && stop(p.cur()) {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipTerminators()
	}
	return stmts, nil
}

// parseBlockBody parses "{" statement* "}" and returns the inner statements.
func (p *Parser) parseBlockBody() ([]Stmt, error) {
	start := p.cur().Range
	if _, err := p.expect(lex.OpenBrace, "'{'"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmts(func(t lex.Token) bool { return t.Type == lex.CloseBrace })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.CloseBrace, "'}'"); err != nil {
		return nil, err
	}
	_ = start
	return stmts, nil
}

func (p *Parser) parseStmt() (Stmt, error) {
	tok := p.cur()

	switch {
	case tok.Type == lex.OpenBrace:
		return p.parseBareBlock()
	case p.atKeyword("define"):
		return p.parseDefine()
	case p.atKeyword("option"):
		return p.parseOption()
	case p.atKeyword("for"):
		return p.parseFor()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("import"):
		return p.parseImport()
	case tok.Type == lex.Identifier:
		return p.parseCommandOrExpr()
	default:
		return nil, diag.UnexpectedParserTokenError(tok.Range, tok.String(), "a statement")
	}
}

func (p *Parser) parseBareBlock() (Stmt, error) {
	start := p.cur().Range
	stmts, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &BlockStmt{Stmts: stmts, Rng: start.Cover(p.lastRange())}, nil
}

func (p *Parser) parseDefine() (Stmt, error) {
	start := p.advance().Range // "define"
	nameTok, err := p.expect(lex.Identifier, "a name")
	if err != nil {
		return nil, err
	}

	if p.at(lex.OpenBrace) {
		body, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return &DefineStmt{Name: nameTok.Name, Body: body, Rng: start.Cover(p.lastRange())}, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &DefineStmt{Name: nameTok.Name, Expr: expr, Rng: start.Cover(expr.Range())}, nil
}

func (p *Parser) parseOption() (Stmt, error) {
	start := p.advance().Range // "option"
	nameTok, err := p.expect(lex.Identifier, "a name")
	if err != nil {
		return nil, err
	}
	def, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &OptionStmt{Name: nameTok.Name, Default: def, Rng: start.Cover(def.Range())}, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	start := p.advance().Range // "for"

	index := ""
	// "for <name> in <expr> { }" vs "for <expr> { }"
	if p.at(lex.Identifier) && p.toks[p.pos+1].Type == lex.Keyword && p.toks[p.pos+1].Name == "in" {
		index = p.advance().Name
		p.advance() // "in"
	}

	in, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Index: index, In: in, Body: body, Rng: start.Cover(p.lastRange())}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	start := p.advance().Range // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Cond: cond, Body: body, Rng: start.Cover(p.lastRange())}

	// peek past terminators for a trailing "else", without consuming them if
	// there is none (an "else" must be reachable without an intervening
	// blank statement).
	save := p.pos
	p.skipTerminators()
	if p.atKeyword("else") {
		p.advance()
		if p.atKeyword("if") {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			ei := elseIf.(*IfStmt)
			stmt.ElseIf = ei
			stmt.Rng = stmt.Rng.Cover(ei.Rng)
			return stmt, nil
		}
		elseBody, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
		stmt.Rng = stmt.Rng.Cover(p.lastRange())
		return stmt, nil
	}
	p.pos = save
	return stmt, nil
}

func (p *Parser) parseImport() (Stmt, error) {
	start := p.advance().Range // "import"
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ImportStmt{Expr: expr, Rng: start.Cover(expr.Range())}, nil
}

// parseCommandOrExpr handles the statement-level ambiguity between a plain
// command ("color 1 0 0") and a block invocation used as a statement
// ("cube { size 1 }").
func (p *Parser) parseCommandOrExpr() (Stmt, error) {
	nameTok := p.advance()

	if p.at(lex.OpenBrace) {
		body, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		expr := &BlockInvocationExpr{Name: nameTok.Name, Body: body, Rng: nameTok.Range.Cover(p.lastRange())}
		return &ExprStmt{Expr: expr, Rng: expr.Rng}, nil
	}

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	rng := nameTok.Range
	if len(args) > 0 {
		rng = rng.Cover(args[len(args)-1].Range())
	}
	return &CommandStmt{Name: nameTok.Name, Args: args, Rng: rng}, nil
}

// parseArguments parses zero or more juxtaposed expressions until a
// statement boundary (terminator, "}", or EOF).
func (p *Parser) parseArguments() ([]Expr, error) {
	var args []Expr
	for !p.atArgBoundary() {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return args, nil
}

func (p *Parser) atArgBoundary() bool {
	t := p.cur()
	return t.Type == lex.EOF || t.Type == lex.Terminator || t.Type == lex.CloseBrace || t.Type == lex.CloseParen
}

func (p *Parser) lastRange() srange.Range {
	if p.pos == 0 {
		return p.toks[0].Range
	}
	return p.toks[p.pos-1].Range
}

// --- Expressions ---
//
// Precedence, loosest to tightest: range (to/step) > or > and > relational
// (=, <>, <, <=, >, >=, chained left-associative) > sum (+, -) > term (*, /)
// > prefix (-, +, not) > member (.) > atom.

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseRange()
}

func (p *Parser) parseRange() (Expr, error) {
	from, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("to") {
		return from, nil
	}
	p.advance()
	to, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	var step Expr
	if p.atKeyword("step") {
		p.advance()
		step, err = p.parseOr()
		if err != nil {
			return nil, err
		}
	}
	rng := from.Range().Cover(to.Range())
	if step != nil {
		rng = rng.Cover(step.Range())
	}
	return &RangeExpr{From: from, To: to, Step: step, Rng: rng}, nil
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("or") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: "or", Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("and") {
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: "and", Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

var relationalOps = map[string]bool{"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *Parser) parseRelational() (Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	for p.at(lex.InfixOp) && relationalOps[p.cur().Name] {
		op := p.advance().Name
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: op, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		if t.Type == lex.PrefixOp {
			// spacing marks this as the start of a new juxtaposed element,
			// not a continuation of this sum.
			break
		}
		if t.Type != lex.InfixOp || (t.Name != "+" && t.Name != "-") {
			break
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: t.Name, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.at(lex.InfixOp) && (p.cur().Name == "*" || p.cur().Name == "/") {
		op := p.advance().Name
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: op, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parseFactor() (Expr, error) {
	t := p.cur()
	if t.Type == lex.PrefixOp || (t.Type == lex.InfixOp && (t.Name == "-" || t.Name == "+")) {
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &PrefixExpr{Op: t.Name, Operand: operand, Rng: t.Range.Cover(operand.Range())}, nil
	}
	if t.Type == lex.Keyword && t.Name == "not" {
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &PrefixExpr{Op: "not", Operand: operand, Rng: t.Range.Cover(operand.Range())}, nil
	}
	return p.parseMember()
}

func (p *Parser) parseMember() (Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.at(lex.Dot) {
		p.advance()
		nameTok, err := p.expect(lex.Identifier, "a member name")
		if err != nil {
			return nil, err
		}
		left = &MemberExpr{Target: left, Name: nameTok.Name, Rng: left.Range().Cover(nameTok.Range)}
	}
	return left, nil
}

func (p *Parser) parseAtom() (Expr, error) {
	t := p.cur()

	switch t.Type {
	case lex.Number:
		p.advance()
		return &NumberExpr{Value: t.Num, Rng: t.Range}, nil

	case lex.String:
		p.advance()
		return &StringExpr{Value: t.Str, Rng: t.Range}, nil

	case lex.HexColor:
		p.advance()
		return &HexColorExpr{Hex: t.Name[1:], Rng: t.Range}, nil

	case lex.Keyword:
		if t.Name == "true" || t.Name == "false" {
			p.advance()
			return &IdentifierExpr{Name: t.Name, Rng: t.Range}, nil
		}
		return nil, diag.UnexpectedParserTokenError(t.Range, t.String(), "an expression")

	case lex.Identifier:
		p.advance()
		if p.at(lex.OpenBrace) {
			body, err := p.parseBlockBody()
			if err != nil {
				return nil, err
			}
			return &BlockInvocationExpr{Name: t.Name, Body: body, Rng: t.Range.Cover(p.lastRange())}, nil
		}
		return &IdentifierExpr{Name: t.Name, Rng: t.Range}, nil

	case lex.OpenParen:
		return p.parseParenOrTuple()

	default:
		return nil, diag.UnexpectedParserTokenError(t.Range, t.String(), "an expression")
	}
}

// parseParenOrTuple parses "(" expression ("," | <juxtaposition>)* ")".
// A single inner expression is unwrapped; more than one forms a TupleExpr.
func (p *Parser) parseParenOrTuple() (Expr, error) {
	start := p.advance().Range // "("

	var elems []Expr
	for !p.at(lex.CloseParen) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.at(lex.Comma) {
			p.advance()
		}
	}
	closeTok, err := p.expect(lex.CloseParen, "')'")
	if err != nil {
		return nil, err
	}

	rng := start.Cover(closeTok.Range)
	if len(elems) == 1 {
		return elems[0], nil
	}
	return &TupleExpr{Elems: elems, Rng: rng}, nil
}
