package interpreter

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/oarkflow/cmdlang"
)

// PowMode selects how POW computes each step of its fold.
type PowMode int

const (
	// PowExact uses big integer exponentiation.
	PowExact PowMode = iota
	// PowFloat raises in float64 and truncates toward zero after every step.
	// Results lose precision once they pass 2^53.
	PowFloat
)

func (m PowMode) String() string {
	if m == PowFloat {
		return "float"
	}
	return "exact"
}

func ParsePowMode(s string) (PowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return PowExact, nil
	case "float":
		return PowFloat, nil
	default:
		return PowExact, fmt.Errorf("unknown pow mode %q (want exact or float)", s)
	}
}

// maxResultBits bounds the estimated size of an exact POW result. The base
// may itself be an earlier POW result, so the check covers both operands.
const maxResultBits = 1 << 24

const maxFactorial = 1 << 17

var bigOne = big.NewInt(1)

// floorDivMod divides rounding toward negative infinity. The remainder takes
// the sign of the divisor. b must be non-zero.
func floorDivMod(a, b *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, bigOne)
		r.Add(r, b)
	}
	return q, r
}

func pow(base, exp *big.Int, mode PowMode) (*big.Int, error) {
	if mode == PowFloat {
		return powFloat(base, exp)
	}
	return powExact(base, exp)
}

func powExact(base, exp *big.Int) (*big.Int, error) {
	absBase := new(big.Int).Abs(base)
	if exp.Sign() < 0 {
		switch {
		case base.Sign() == 0:
			return nil, cmdlang.NewExecutionError("0 cannot be raised to a negative power.")
		case absBase.Cmp(bigOne) == 0:
			if base.Sign() < 0 && exp.Bit(0) == 1 {
				return big.NewInt(-1), nil
			}
			return big.NewInt(1), nil
		default:
			// |base^exp| < 1 truncates to zero.
			return new(big.Int), nil
		}
	}
	if absBase.Cmp(bigOne) > 0 {
		if !exp.IsInt64() || exp.Int64() > maxResultBits || int64(absBase.BitLen())*exp.Int64() > maxResultBits {
			return nil, cmdlang.NewExecutionError("Result of POW operation is too large.")
		}
	}
	return new(big.Int).Exp(base, exp, nil), nil
}

func powFloat(base, exp *big.Int) (*big.Int, error) {
	b, _ := new(big.Float).SetInt(base).Float64()
	e, _ := new(big.Float).SetInt(exp).Float64()
	r := math.Pow(b, e)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return nil, cmdlang.NewExecutionError("Math range error in POW operation.")
	}
	out, _ := big.NewFloat(r).Int(nil)
	return out, nil
}

// fold applies op left to right over operands, resolving each one just
// before it is used so errors surface in source order.
func fold(op cmdlang.ArithOp, operands []string, resolve func(string) (*big.Int, error), mode PowMode) (*big.Int, error) {
	if len(operands) < 2 {
		return nil, cmdlang.NewExecutionError("No parameters for arithmetic operation.")
	}
	if (op == cmdlang.OpDiv || op == cmdlang.OpMod) && len(operands) > 2 {
		return nil, cmdlang.NewExecutionError("Too many parameters for %s operation.", op)
	}
	first, err := resolve(operands[0])
	if err != nil {
		return nil, err
	}
	result := new(big.Int).Set(first)
	for _, operand := range operands[1:] {
		num, err := resolve(operand)
		if err != nil {
			return nil, err
		}
		switch op {
		case cmdlang.OpAdd:
			result.Add(result, num)
		case cmdlang.OpSub:
			result.Sub(result, num)
		case cmdlang.OpMul:
			result.Mul(result, num)
		case cmdlang.OpDiv:
			if num.Sign() == 0 {
				return nil, cmdlang.NewExecutionError("Division by zero.")
			}
			result, _ = floorDivMod(result, num)
		case cmdlang.OpMod:
			if num.Sign() == 0 {
				return nil, cmdlang.NewExecutionError("Modulus by zero.")
			}
			_, result = floorDivMod(result, num)
		case cmdlang.OpPow:
			if result, err = pow(result, num, mode); err != nil {
				return nil, err
			}
		default:
			return nil, cmdlang.NewExecutionError("Unsupported arithmetic operation.")
		}
	}
	return result, nil
}

func factorial(n int64) (*big.Int, error) {
	if n < 0 {
		return nil, cmdlang.NewExecutionError("Factorial of negative number is undefined.")
	}
	if n > maxFactorial {
		return nil, cmdlang.NewExecutionError("Factorial operand %d is too large.", n)
	}
	if n < 2 {
		return big.NewInt(1), nil
	}
	return new(big.Int).MulRange(1, n), nil
}
