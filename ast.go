package cmdlang

import (
	"strconv"
	"strings"
)

// DataType is the declared type of a SET or IN statement.
type DataType int

const (
	NumberType DataType = iota
	TextType
)

func (d DataType) String() string {
	if d == TextType {
		return STRING
	}
	return NUMBER
}

func (d DataType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return ADD
	case OpSub:
		return SUB
	case OpMul:
		return MUL
	case OpDiv:
		return DIV
	case OpMod:
		return MOD
	case OpPow:
		return POW
	default:
		return "UNKNOWN"
	}
}

func (op ArithOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

var arithOps = map[TokenType]ArithOp{
	ADD: OpAdd,
	SUB: OpSub,
	MUL: OpMul,
	DIV: OpDiv,
	MOD: OpMod,
	POW: OpPow,
}

// Statement is implemented only by the six statement types in this file.
// The interpreter switches over them exhaustively.
type Statement interface {
	statementNode()
	// Target is the variable the statement reads or assigns.
	Target() string
	// Keyword is the statement keyword as written in source.
	Keyword() string
	// String renders the statement as canonical source.
	String() string
}

type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	var out strings.Builder
	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

type SetStatement struct {
	Name    string   `json:"name"`
	Type    DataType `json:"type"`
	Literal string   `json:"literal"`
}

func (s *SetStatement) statementNode()  {}
func (s *SetStatement) Target() string  { return s.Name }
func (s *SetStatement) Keyword() string { return SET }
func (s *SetStatement) String() string {
	return "SET " + s.Name + " " + s.Type.String() + "(" + renderValue(s.Literal) + ")"
}

type ArithmeticStatement struct {
	Name     string   `json:"name"`
	Op       ArithOp  `json:"op"`
	Operands []string `json:"operands"`
}

func (s *ArithmeticStatement) statementNode()  {}
func (s *ArithmeticStatement) Target() string  { return s.Name }
func (s *ArithmeticStatement) Keyword() string { return s.Op.String() }
func (s *ArithmeticStatement) String() string {
	return s.Op.String() + " " + s.Name + "(" + strings.Join(s.Operands, ", ") + ")"
}

type FactorialStatement struct {
	Name    string `json:"name"`
	Operand int64  `json:"operand"`
}

func (s *FactorialStatement) statementNode()  {}
func (s *FactorialStatement) Target() string  { return s.Name }
func (s *FactorialStatement) Keyword() string { return FACT }
func (s *FactorialStatement) String() string {
	return "FACT " + s.Name + " " + strconv.FormatInt(s.Operand, 10)
}

// ExprStatement keeps the quoted expression unparsed; it is evaluated by
// the interpreter's infix evaluator at run time.
type ExprStatement struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (s *ExprStatement) statementNode()  {}
func (s *ExprStatement) Target() string  { return s.Name }
func (s *ExprStatement) Keyword() string { return EXPR }
func (s *ExprStatement) String() string {
	return "EXPR " + s.Name + "(\"" + s.Source + "\")"
}

type OutStatement struct {
	Name string `json:"name"`
}

func (s *OutStatement) statementNode()  {}
func (s *OutStatement) Target() string  { return s.Name }
func (s *OutStatement) Keyword() string { return OUT }
func (s *OutStatement) String() string  { return "OUT " + s.Name }

type InStatement struct {
	Name string   `json:"name"`
	Type DataType `json:"type"`
}

func (s *InStatement) statementNode()  {}
func (s *InStatement) Target() string  { return s.Name }
func (s *InStatement) Keyword() string { return IN }
func (s *InStatement) String() string  { return "IN " + s.Name + " " + s.Type.String() }

// renderValue quotes a SET literal unless it lexes back as a single bare token.
func renderValue(literal string) string {
	if IsDigits(literal) || IsIdentifier(literal) {
		return literal
	}
	return "\"" + literal + "\""
}
