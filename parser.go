package cmdlang

import (
	"strconv"
)

type ParserOption func(*Parser)

// WithStrictCommas requires exactly one comma between arithmetic operands
// and rejects a trailing comma. By default commas are optional separators.
func WithStrictCommas(strict bool) ParserOption {
	return func(p *Parser) {
		p.strictCommas = strict
	}
}

// Parser is a recursive-descent parser with a single token of lookahead.
// It stops at the first error; there is no recovery.
type Parser struct {
	l            *Lexer
	curToken     Token
	strictCommas bool
}

func NewParser(l *Lexer, opts ...ParserOption) *Parser {
	p := &Parser{l: l}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes and parses source in one step.
func Parse(source string, opts ...ParserOption) (*Program, error) {
	return NewParser(NewLexer(source), opts...).ParseProgram()
}

func (p *Parser) nextToken() error {
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.curToken = tok
	return nil
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

// expect checks the current token, returns it and advances past it.
func (p *Parser) expect(t TokenType, what string) (Token, error) {
	tok := p.curToken
	if tok.Type != t {
		return tok, NewSyntaxError(tok, "expected %s, got %s", what, tok.describe())
	}
	return tok, p.nextToken()
}

func (p *Parser) expectName(keyword string) (string, error) {
	tok, err := p.expect(IDENT, "variable name after "+keyword)
	return tok.Literal, err
}

func (p *Parser) expectDataType(what string) (DataType, error) {
	tok := p.curToken
	var dt DataType
	switch tok.Type {
	case NUMBER:
		dt = NumberType
	case STRING:
		dt = TextType
	default:
		return dt, NewSyntaxError(tok, "expected NUMBER or STRING %s, got %s", what, tok.describe())
	}
	return dt, p.nextToken()
}

// ParseProgram parses statements until end of input.
func (p *Parser) ParseProgram() (*Program, error) {
	program := &Program{Statements: []Statement{}}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	for !p.curTokenIs(EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	switch p.curToken.Type {
	case SET:
		return p.parseSetStatement()
	case ADD, SUB, MUL, DIV, MOD, POW:
		return p.parseArithmeticStatement(arithOps[p.curToken.Type])
	case FACT:
		return p.parseFactorialStatement()
	case EXPR:
		return p.parseExprStatement()
	case IN:
		return p.parseInStatement()
	case OUT:
		return p.parseOutStatement()
	default:
		return nil, NewSyntaxError(p.curToken, "unexpected token %s", p.curToken.describe())
	}
}

// SET <ident> (NUMBER|STRING) '(' <value> ')'
func (p *Parser) parseSetStatement() (Statement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	stmt := &SetStatement{}
	var err error
	if stmt.Name, err = p.expectName(SET); err != nil {
		return nil, err
	}
	if stmt.Type, err = p.expectDataType("after variable name"); err != nil {
		return nil, err
	}
	if _, err = p.expect(LPAREN, "'(' after data type"); err != nil {
		return nil, err
	}
	switch p.curToken.Type {
	case EOF, LPAREN, RPAREN, COMMA:
		return nil, NewSyntaxError(p.curToken, "expected a value for %s, got %s", stmt.Name, p.curToken.describe())
	}
	stmt.Literal = p.curToken.Literal
	if err = p.nextToken(); err != nil {
		return nil, err
	}
	if _, err = p.expect(RPAREN, "')' at the end of assignment"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// <OP> <ident> '(' operand [','] operand ... ')'
func (p *Parser) parseArithmeticStatement(op ArithOp) (Statement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	stmt := &ArithmeticStatement{Op: op, Operands: []string{}}
	var err error
	if stmt.Name, err = p.expectName(op.String()); err != nil {
		return nil, err
	}
	if _, err = p.expect(LPAREN, "'(' after "+op.String()+" variable"); err != nil {
		return nil, err
	}
	for !p.curTokenIs(RPAREN) {
		switch p.curToken.Type {
		case IDENT, INT:
			stmt.Operands = append(stmt.Operands, p.curToken.Literal)
		default:
			return nil, NewSyntaxError(p.curToken, "unexpected token %s in arithmetic operation", p.curToken.describe())
		}
		if err = p.nextToken(); err != nil {
			return nil, err
		}
		if p.curTokenIs(COMMA) {
			if err = p.nextToken(); err != nil {
				return nil, err
			}
			if p.strictCommas && p.curTokenIs(RPAREN) {
				return nil, NewSyntaxError(p.curToken, "trailing ',' in arithmetic operation")
			}
		} else if p.strictCommas && !p.curTokenIs(RPAREN) {
			return nil, NewSyntaxError(p.curToken, "expected ',' between operands, got %s", p.curToken.describe())
		}
	}
	if err = p.nextToken(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// FACT <ident> <int>
func (p *Parser) parseFactorialStatement() (Statement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	stmt := &FactorialStatement{}
	var err error
	if stmt.Name, err = p.expectName(FACT); err != nil {
		return nil, err
	}
	tok, err := p.expect(INT, "an integer for FACT")
	if err != nil {
		return nil, err
	}
	n, convErr := strconv.ParseInt(tok.Literal, 10, 64)
	if convErr != nil {
		return nil, NewSyntaxError(tok, "factorial operand %s is out of range", tok.Literal)
	}
	stmt.Operand = n
	return stmt, nil
}

// EXPR <ident> '(' "<expression>" ')'
func (p *Parser) parseExprStatement() (Statement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	stmt := &ExprStatement{}
	var err error
	if stmt.Name, err = p.expectName(EXPR); err != nil {
		return nil, err
	}
	if _, err = p.expect(LPAREN, "'(' after EXPR variable"); err != nil {
		return nil, err
	}
	tok, err := p.expect(STRING_LIT, "expression inside double quotes")
	if err != nil {
		return nil, err
	}
	stmt.Source = tok.Literal
	if _, err = p.expect(RPAREN, "')' after expression"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// OUT <ident>
func (p *Parser) parseOutStatement() (Statement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	name, err := p.expectName(OUT)
	if err != nil {
		return nil, err
	}
	return &OutStatement{Name: name}, nil
}

// IN <ident> (NUMBER|STRING)
func (p *Parser) parseInStatement() (Statement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	stmt := &InStatement{}
	var err error
	if stmt.Name, err = p.expectName(IN); err != nil {
		return nil, err
	}
	if stmt.Type, err = p.expectDataType("type for IN statement"); err != nil {
		return nil, err
	}
	return stmt, nil
}
