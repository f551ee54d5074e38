package interpreter

import (
	"math/big"
)

type ObjectType int

const (
	INTEGER_OBJ ObjectType = iota
	STRING_OBJ
)

func (ot ObjectType) String() string {
	switch ot {
	case INTEGER_OBJ:
		return "NUMBER"
	case STRING_OBJ:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Object is a value held in the store. Only *Integer and *String implement it.
type Object interface {
	Type() ObjectType
	Inspect() string
	object()
}

// Integer is an arbitrary precision integer. Its Value is never mutated
// after construction; arithmetic always allocates a fresh big.Int.
type Integer struct {
	Value *big.Int
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return i.Value.String() }
func (i *Integer) object()          {}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) object()          {}

func NewInteger(n int64) *Integer {
	return &Integer{Value: big.NewInt(n)}
}

// parseDigits converts an all-digit string. Callers check cmdlang.IsDigits first.
func parseDigits(s string) (*Integer, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return &Integer{Value: n}, true
}
