package cmdlang

import (
	"strings"
	"testing"
)

func TestNextTokenSequence(t *testing.T) {
	input := `SET x NUMBER(5) # trailing comment
ADD total(x, 10)
EXPR e("1 + 2")
IN name STRING`

	tests := []struct {
		typ     TokenType
		literal string
	}{
		{SET, "SET"}, {IDENT, "x"}, {NUMBER, "NUMBER"}, {LPAREN, "("}, {INT, "5"}, {RPAREN, ")"},
		{ADD, "ADD"}, {IDENT, "total"}, {LPAREN, "("}, {IDENT, "x"}, {COMMA, ","}, {INT, "10"}, {RPAREN, ")"},
		{EXPR, "EXPR"}, {IDENT, "e"}, {LPAREN, "("}, {STRING_LIT, "1 + 2"}, {RPAREN, ")"},
		{IN, "IN"}, {IDENT, "name"}, {STRING, "STRING"},
		{EOF, ""},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != tt.typ || tok.Literal != tt.literal {
			t.Fatalf("token %d: expected %s %q, got %s %q", i, tt.typ, tt.literal, tok.Type, tok.Literal)
		}
	}
}

func TestNextTokenEOFIsRepeated(t *testing.T) {
	l := NewLexer("OUT x")
	for i := 0; i < 2; i++ {
		if _, err := l.NextToken(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		if err != nil || tok.Type != EOF {
			t.Fatalf("expected EOF on call %d, got %v (err %v)", i, tok, err)
		}
	}
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	tokens, err := Tokenize("set Set SET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{IDENT, IDENT, SET, EOF}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Fatalf("token %d: expected %s, got %s", i, typ, tokens[i].Type)
		}
	}
}

func TestIdentifiersAndNumbers(t *testing.T) {
	tokens, err := Tokenize("a_1 B2 007 12abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Token{
		{Type: IDENT, Literal: "a_1"},
		{Type: IDENT, Literal: "B2"},
		{Type: INT, Literal: "007"},
		{Type: INT, Literal: "12"},
		{Type: IDENT, Literal: "abc"},
		{Type: EOF},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i := range want {
		if tokens[i].Type != want[i].Type || tokens[i].Literal != want[i].Literal {
			t.Fatalf("token %d: expected %s %q, got %s %q", i, want[i].Type, want[i].Literal, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestStringLiteralKeepsContentVerbatim(t *testing.T) {
	tokens, err := Tokenize(`"a # not a comment \n"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Type != STRING_LIT || tokens[0].Literal != `a # not a comment \n` {
		t.Fatalf("unexpected token %v", tokens[0])
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize("OUT x\n  OUT y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checks := []struct {
		idx, line, column int
	}{
		{0, 1, 1}, {1, 1, 5}, {2, 2, 3}, {3, 2, 7},
	}
	for _, c := range checks {
		tok := tokens[c.idx]
		if tok.Line != c.line || tok.Column != c.column {
			t.Fatalf("token %d (%q): expected %d:%d, got %d:%d", c.idx, tok.Literal, c.line, c.column, tok.Line, tok.Column)
		}
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unterminated string", `EXPR e("1 + 2`, "unterminated string"},
		{"minus sign", "FACT f -1", "unrecognized character '-'"},
		{"leading underscore", "OUT _x", "unrecognized character '_'"},
		{"stray symbol", "SET x NUMBER(5);", "unrecognized character ';'"},
		{"multi-byte character", "SET é NUMBER(1)", "unrecognized character 'é'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			if !IsExecutionError(err) {
				t.Fatalf("expected execution error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestIsDigitsAndIsIdentifier(t *testing.T) {
	for s, want := range map[string]bool{"0": true, "123": true, "": false, "1a": false, "-1": false} {
		if got := IsDigits(s); got != want {
			t.Errorf("IsDigits(%q) = %v, want %v", s, got, want)
		}
	}
	for s, want := range map[string]bool{"x": true, "x_1": true, "SET": true, "_x": false, "1x": false, "": false, "a b": false} {
		if got := IsIdentifier(s); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
