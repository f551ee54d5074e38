package cmdlang

import (
	"fmt"
)

type TokenType string

const (
	EOF = "EOF"

	IDENT      = "IDENT"
	INT        = "INT"
	STRING_LIT = "STRING_LIT"

	LPAREN = "("
	RPAREN = ")"
	COMMA  = ","

	SET  = "SET"
	ADD  = "ADD"
	SUB  = "SUB"
	MUL  = "MUL"
	DIV  = "DIV"
	MOD  = "MOD"
	POW  = "POW"
	FACT = "FACT"
	EXPR = "EXPR"
	IN   = "IN"
	OUT  = "OUT"

	NUMBER = "NUMBER"
	STRING = "STRING"
)

var keywords = map[string]TokenType{
	"SET":    SET,
	"ADD":    ADD,
	"SUB":    SUB,
	"MUL":    MUL,
	"DIV":    DIV,
	"MOD":    MOD,
	"POW":    POW,
	"FACT":   FACT,
	"EXPR":   EXPR,
	"IN":     IN,
	"OUT":    OUT,
	"NUMBER": NUMBER,
	"STRING": STRING,
}

// lookupKeyword is case-sensitive: "set" is an identifier.
func lookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, Line: %d, Column: %d)", t.Type, t.Literal, t.Line, t.Column)
}

// describe renders a token for error messages.
func (t Token) describe() string {
	if t.Type == EOF {
		return "end of input"
	}
	return "'" + t.Literal + "'"
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentifierChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// IsDigits reports whether s is a non-empty run of ASCII decimal digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// IsIdentifier reports whether s lexes as a single identifier or keyword.
func IsIdentifier(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentifierChar(s[i]) {
			return false
		}
	}
	return true
}
