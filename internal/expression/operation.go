package expression

import (
	"fmt"

	"github.com/karupanerura/lettercalc/internal/types"
)

func isArithmetic(op rune) bool {
	switch op {
	case '+', '-', '*', '/':
		return true
	default:
		return false
	}
}

// apply follows IEEE 754: dividing by zero yields an infinity or NaN.
func apply(op rune, left, right float64) (float64, error) {
	switch op {
	case '+':
		return left + right, nil
	case '-':
		return left - right, nil
	case '*':
		return left * right, nil
	case '/':
		return left / right, nil
	default:
		return 0, &types.Error{
			Tag:  types.InvalidOperatorTag,
			Char: op,
			Err:  fmt.Errorf("invalid operator: %q", op),
		}
	}
}
