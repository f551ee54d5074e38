package interpreter

import (
	"math/big"

	"github.com/oarkflow/cmdlang"
)

func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	default:
		return 0
	}
}

func applyOp(a, b *big.Int, op byte) (*big.Int, error) {
	switch op {
	case '+':
		return new(big.Int).Add(a, b), nil
	case '-':
		return new(big.Int).Sub(a, b), nil
	case '*':
		return new(big.Int).Mul(a, b), nil
	case '/':
		if b.Sign() == 0 {
			return nil, cmdlang.NewExecutionError("Division by zero.")
		}
		q, _ := floorDivMod(a, b)
		return q, nil
	default:
		return nil, cmdlang.NewExecutionError("Unsupported operator '%c' in expression.", op)
	}
}

type infixStacks struct {
	values []*big.Int
	ops    []byte
}

func (s *infixStacks) topOp() byte {
	return s.ops[len(s.ops)-1]
}

// reduce pops one operator and two operands and pushes the result.
func (s *infixStacks) reduce() error {
	op := s.topOp()
	s.ops = s.ops[:len(s.ops)-1]
	if op == '(' {
		return cmdlang.NewExecutionError("Mismatched parentheses in expression.")
	}
	if len(s.values) < 2 {
		return cmdlang.NewExecutionError("Malformed expression: missing operand for '%c'.", op)
	}
	b := s.values[len(s.values)-1]
	a := s.values[len(s.values)-2]
	s.values = s.values[:len(s.values)-2]
	v, err := applyOp(a, b, op)
	if err != nil {
		return err
	}
	s.values = append(s.values, v)
	return nil
}

// EvalInfix evaluates an EXPR body: unsigned integers, + - * /, parentheses
// and spaces. It is a two-stack shunting-yard evaluator with left
// associativity; '/' is floor division. Variables are not visible here.
func EvalInfix(src string) (*big.Int, error) {
	s := &infixStacks{}
	for i := 0; i < len(src); i++ {
		ch := src[i]
		switch {
		case ch == ' ':
			continue
		case ch == '(':
			s.ops = append(s.ops, ch)
		case ch >= '0' && ch <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			n, _ := new(big.Int).SetString(src[start:i], 10)
			s.values = append(s.values, n)
			i--
		case ch == ')':
			for len(s.ops) > 0 && s.topOp() != '(' {
				if err := s.reduce(); err != nil {
					return nil, err
				}
			}
			if len(s.ops) == 0 {
				return nil, cmdlang.NewExecutionError("Mismatched parentheses in expression.")
			}
			s.ops = s.ops[:len(s.ops)-1]
		default:
			for len(s.ops) > 0 && s.topOp() != '(' && precedence(s.topOp()) >= precedence(ch) {
				if err := s.reduce(); err != nil {
					return nil, err
				}
			}
			s.ops = append(s.ops, ch)
		}
	}
	for len(s.ops) > 0 {
		if err := s.reduce(); err != nil {
			return nil, err
		}
	}
	switch len(s.values) {
	case 0:
		return nil, cmdlang.NewExecutionError("Empty expression.")
	case 1:
		return s.values[0], nil
	default:
		return nil, cmdlang.NewExecutionError("Malformed expression: missing operator.")
	}
}
