package cmdlang

import "unicode/utf8"

// Lexer turns source text into tokens on demand. It keeps no lookahead of
// its own; the parser buffers the current token.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch {
		case isSpace(l.ch):
			l.readChar()
		case l.ch == '#':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for !l.atEnd() && isIdentifierChar(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString consumes a double-quoted literal without escape handling.
func (l *Lexer) readString() (string, bool) {
	l.readChar()
	position := l.position
	for !l.atEnd() && l.ch != '"' {
		l.readChar()
	}
	if l.atEnd() {
		return l.input[position:], false
	}
	value := l.input[position:l.position]
	l.readChar()
	return value, true
}

// NextToken returns the next token. Once the input is exhausted it keeps
// returning EOF. Lexical failures are execution errors carrying the position
// of the offending character.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}
	if l.atEnd() {
		tok.Type = EOF
		return tok, nil
	}

	switch {
	case l.ch == '(':
		tok.Type, tok.Literal = LPAREN, "("
		l.readChar()
	case l.ch == ')':
		tok.Type, tok.Literal = RPAREN, ")"
		l.readChar()
	case l.ch == ',':
		tok.Type, tok.Literal = COMMA, ","
		l.readChar()
	case l.ch == '"':
		literal, ok := l.readString()
		if !ok {
			return tok, &Error{Kind: ExecutionError, Msg: "unterminated string", Line: tok.Line, Column: tok.Column}
		}
		tok.Type, tok.Literal = STRING_LIT, literal
	case isLetter(l.ch):
		tok.Literal = l.readIdentifier()
		tok.Type = lookupKeyword(tok.Literal)
	case isDigit(l.ch):
		tok.Type, tok.Literal = INT, l.readNumber()
	default:
		r, _ := utf8.DecodeRuneInString(l.input[l.position:])
		return tok, &Error{Kind: ExecutionError, Msg: "unrecognized character '" + string(r) + "'", Line: tok.Line, Column: tok.Column}
	}
	return tok, nil
}

// Tokenize drains the lexer. It is mostly useful for tests and tooling;
// the parser pulls tokens lazily.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
