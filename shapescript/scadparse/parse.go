package scadparse

import (
	"github.com/dekarrin/tunaq/shapescript/diag"
	"github.com/dekarrin/tunaq/shapescript/scadlex"
	"github.com/dekarrin/tunaq/shapescript/srange"
)

// Program is a parsed secondary-dialect source file.
type Program struct {
	Source  string
	FileURL string
	Stmts   []Stmt
}

// Parser holds the token stream and a previous-token-was-operator flag,
// prevWasOperator. The flag is recorded as tokens are consumed, but nothing
// reads it: the parser applies no synthetic-parenthesis rule, so a call
// that follows an operator parses like any other call.
type Parser struct {
	toks            []scadlex.Token
	pos             int
	prevWasOperator bool
}

func New(toks []scadlex.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes and parses src into a Program.
func Parse(src, fileURL string) (*Program, error) {
	toks, err := scadlex.All(src)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	stmts, err := p.parseStmts(func(t scadlex.Token) bool { return t.Type == scadlex.EOF })
	if err != nil {
		return nil, err
	}
	return &Program{Source: src, FileURL: fileURL, Stmts: stmts}, nil
}

func (p *Parser) cur() scadlex.Token { return p.toks[p.pos] }

func (p *Parser) advance() scadlex.Token {
	t := p.toks[p.pos]
	p.prevWasOperator = t.Type == scadlex.InfixOp || t.Type == scadlex.Assign || t.Type == scadlex.Bang
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(t scadlex.TokenType) bool { return p.cur().Type == t }

func (p *Parser) atKeyword(name string) bool {
	c := p.cur()
	return c.Type == scadlex.Keyword && c.Name == name
}

func (p *Parser) expect(t scadlex.TokenType, expected string) (scadlex.Token, error) {
	if !p.at(t) {
		return scadlex.Token{}, diag.UnexpectedTokenError(p.cur().Range, expected)
	}
	return p.advance(), nil
}

func (p *Parser) lastRange() srange.Range {
	if p.pos == 0 {
		return p.toks[0].Range
	}
	return p.toks[p.pos-1].Range
}

func (p *Parser) parseStmts(stop func(scadlex.Token) bool) ([]Stmt, error) {
	var out []Stmt
	for !stop(p.cur()) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Parser) parseBlockBody() ([]Stmt, error) {
	open, err := p.expect(scadlex.OpenBrace, "'{'")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStmts(func(t scadlex.Token) bool {
		return t.Type == scadlex.CloseBrace || t.Type == scadlex.EOF
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scadlex.CloseBrace, "'}'"); err != nil {
		return nil, err
	}
	_ = open
	return stmts, nil
}

func (p *Parser) parseStmt() (Stmt, error) {
	switch {
	case p.atKeyword("module"):
		return p.parseModuleDef()
	case p.atKeyword("function"):
		return p.parseFunctionDef()
	case p.atKeyword("for"):
		return p.parseFor()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.at(scadlex.OpenBrace):
		start := p.cur().Range
		stmts, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts, Rng: start.Cover(p.lastRange())}, nil
	case p.at(scadlex.Identifier):
		return p.parseIdentStmt()
	default:
		return nil, diag.UnexpectedTokenError(p.cur().Range, "statement")
	}
}

func (p *Parser) parseModuleDef() (Stmt, error) {
	start := p.advance().Range // 'module'
	name, err := p.expect(scadlex.Identifier, "module name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ModuleDefStmt{Name: name.Name, Params: params, Body: body, Rng: start.Cover(p.lastRange())}, nil
}

func (p *Parser) parseFunctionDef() (Stmt, error) {
	start := p.advance().Range // 'function'
	name, err := p.expect(scadlex.Identifier, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scadlex.Assign, "'='"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scadlex.Semicolon, "';'"); err != nil {
		return nil, err
	}
	return &FunctionDefStmt{Name: name.Name, Params: params, Expr: expr, Rng: start.Cover(p.lastRange())}, nil
}

func (p *Parser) parseParamList() ([]string, error) {
	if _, err := p.expect(scadlex.OpenParen, "'('"); err != nil {
		return nil, err
	}
	var names []string
	for !p.at(scadlex.CloseParen) {
		id, err := p.expect(scadlex.Identifier, "parameter name")
		if err != nil {
			return nil, err
		}
		names = append(names, id.Name)
		if p.at(scadlex.Assign) {
			p.advance()
			if _, err := p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if p.at(scadlex.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(scadlex.CloseParen, "')'"); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	start := p.advance().Range // 'for'
	if _, err := p.expect(scadlex.OpenParen, "'('"); err != nil {
		return nil, err
	}
	v, err := p.expect(scadlex.Identifier, "loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scadlex.Assign, "'='"); err != nil {
		return nil, err
	}
	in, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scadlex.CloseParen, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Var: v.Name, In: in, Body: body, Rng: start.Cover(p.lastRange())}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	start := p.advance().Range // 'if'
	if _, err := p.expect(scadlex.OpenParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scadlex.CloseParen, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	s := &IfStmt{Cond: cond, Then: then, Rng: start.Cover(p.lastRange())}
	if p.atKeyword("else") {
		p.advance()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		s.Else = els
		s.Rng = start.Cover(p.lastRange())
	}
	return s, nil
}

// parseIdentStmt handles "name = expr;" assignment and "name(args) ..."
// module-call forms, including the trailing single-statement or brace-body
// chaining construct ("translate(v) rotate(a) cube();").
func (p *Parser) parseIdentStmt() (Stmt, error) {
	start := p.cur().Range
	name := p.advance().Name

	if p.at(scadlex.Assign) {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scadlex.Semicolon, "';'"); err != nil {
			return nil, err
		}
		return &AssignStmt{Name: name, Expr: expr, Rng: start.Cover(p.lastRange())}, nil
	}

	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}

	call := &ModuleCallStmt{Name: name, Args: args, Rng: start.Cover(p.lastRange())}

	switch {
	case p.at(scadlex.Semicolon):
		p.advance()
		call.Rng = start.Cover(p.lastRange())
		return call, nil
	case p.at(scadlex.OpenBrace):
		body, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		call.Body = body
		call.Rng = start.Cover(p.lastRange())
		return call, nil
	default:
		next, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		call.Next = next
		call.Rng = start.Cover(p.lastRange())
		return call, nil
	}
}

func (p *Parser) parseCallArgs() ([]Arg, error) {
	if _, err := p.expect(scadlex.OpenParen, "'('"); err != nil {
		return nil, err
	}
	var args []Arg
	for !p.at(scadlex.CloseParen) {
		var a Arg
		if p.at(scadlex.Identifier) && p.toks[p.pos+1].Type == scadlex.Assign {
			a.Name = p.advance().Name
			p.advance() // '='
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		a.Value = expr
		args = append(args, a)
		if p.at(scadlex.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(scadlex.CloseParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

// --- Expressions: || -> && -> ==/!= -> relational -> sum -> term -> ^ -> prefix -> postfix(call/index) -> atom ---

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.at(scadlex.Colon) {
		// bare '?' is lexed as an operator symbol? OpenSCAD uses '?' ':' —
		// '?' is not in operatorSymbols, so scadlex would reject it; the
		// ternary form is therefore accepted only via its InfixOp "?" if
		// present in a future lexer revision. No-op branch kept minimal.
	}
	return cond, nil
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(scadlex.InfixOp) && p.cur().Name == "||" {
		op := p.advance().Name
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: op, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(scadlex.InfixOp) && p.cur().Name == "&&" {
		op := p.advance().Name
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: op, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.at(scadlex.InfixOp) && (p.cur().Name == "==" || p.cur().Name == "!=") {
		op := p.advance().Name
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: op, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

var relOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}

func (p *Parser) parseRelational() (Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	for p.at(scadlex.InfixOp) && relOps[p.cur().Name] {
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
	for p.at(scadlex.InfixOp) && (p.cur().Name == "+" || p.cur().Name == "-") {
		op := p.advance().Name
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: op, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for p.at(scadlex.InfixOp) && (p.cur().Name == "*" || p.cur().Name == "/" || p.cur().Name == "%") {
		op := p.advance().Name
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		left = &InfixExpr{Left: left, Op: op, Right: right, Rng: left.Range().Cover(right.Range())}
	}
	return left, nil
}

func (p *Parser) parsePow() (Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	if p.at(scadlex.InfixOp) && p.cur().Name == "^" {
		p.advance()
		right, err := p.parsePow() // right-assoc
		if err != nil {
			return nil, err
		}
		return &InfixExpr{Left: left, Op: "^", Right: right, Rng: left.Range().Cover(right.Range())}, nil
	}
	return left, nil
}

func (p *Parser) parsePrefix() (Expr, error) {
	if p.at(scadlex.Bang) || (p.at(scadlex.InfixOp) && p.cur().Name == "-") {
		t := p.advance()
		operand, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		op := "-"
		if t.Type == scadlex.Bang {
			op = "!"
		}
		return &PrefixExpr{Op: op, Operand: operand, Rng: t.Range.Cover(operand.Range())}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(scadlex.OpenBracket):
			start := p.advance().Range
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(scadlex.CloseBracket, "']'")
			if err != nil {
				return nil, err
			}
			e = &IndexExpr{Target: e, Index: idx, Rng: start.Cover(end.Range)}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseAtom() (Expr, error) {
	t := p.cur()
	switch t.Type {
	case scadlex.Number:
		p.advance()
		return &NumberExpr{Value: t.Num, Rng: t.Range}, nil
	case scadlex.String:
		p.advance()
		return &StringExpr{Value: t.Str, Rng: t.Range}, nil
	case scadlex.OpenParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scadlex.CloseParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case scadlex.OpenBracket:
		return p.parseBracket()
	case scadlex.Keyword:
		switch t.Name {
		case "true":
			p.advance()
			return &IdentExpr{Name: "true", Rng: t.Range}, nil
		case "false":
			p.advance()
			return &IdentExpr{Name: "false", Rng: t.Range}, nil
		case "undef":
			p.advance()
			return &IdentExpr{Name: "undef", Rng: t.Range}, nil
		}
		return nil, diag.UnexpectedTokenError(t.Range, "expression")
	case scadlex.Identifier:
		p.advance()
		if p.at(scadlex.OpenParen) {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &CallExpr{Name: t.Name, Args: args, Rng: t.Range.Cover(p.lastRange())}, nil
		}
		return &IdentExpr{Name: t.Name, Rng: t.Range}, nil
	default:
		return nil, diag.UnexpectedTokenError(t.Range, "expression")
	}
}

// parseBracket parses "[a, b, c]" as a vector or "[lo:hi]"/"[lo:step:hi]"
// as a range (spec.md §4.E).
func (p *Parser) parseBracket() (Expr, error) {
	start := p.advance().Range // '['
	if p.at(scadlex.CloseBracket) {
		end := p.advance().Range
		return &VectorExpr{Rng: start.Cover(end)}, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.at(scadlex.Colon) {
		p.advance()
		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		r := &RangeExpr{Lo: first, Hi: second}
		if p.at(scadlex.Colon) {
			p.advance()
			third, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			r.Step = second
			r.Hi = third
		}
		end, err := p.expect(scadlex.CloseBracket, "']'")
		if err != nil {
			return nil, err
		}
		r.Rng = start.Cover(end.Range)
		return r, nil
	}

	elems := []Expr{first}
	for p.at(scadlex.Comma) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(scadlex.CloseBracket, "']'")
	if err != nil {
		return nil, err
	}
	return &VectorExpr{Elems: elems, Rng: start.Cover(end.Range)}, nil
}
