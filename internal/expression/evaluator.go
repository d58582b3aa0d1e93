package expression

import (
	"fmt"
	"log"
	"os"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/lettercalc/internal/types"
)

// openParen marks a group boundary on the operator stack.
const openParen = '('

// Evaluator reduces an Expression with an operand stack and an operator
// stack. Operators are not ranked: an operator is applied as soon as the
// next operator at the same group level shows up, a group is reduced when
// it closes, and whatever is left is reduced after the last token.
type Evaluator struct {
	Debug bool
}

type evaluation struct {
	operands  []float64
	operators []rune
	// pending is set while the last operator still waits for its right
	// operand.
	pending bool
}

func (e *Evaluator) Evaluate(expr Expression) (float64, error) {
	ev := &evaluation{
		operands:  make([]float64, 0, len(expr)/2+1),
		operators: make([]rune, 0, len(expr)/2+1),
	}

	for _, tok := range expr {
		if e.Debug {
			log.Printf("token: %v", tok)
			pp.Fprintln(os.Stderr, ev.operands, string(ev.operators))
		}
		if err := ev.step(tok); err != nil {
			return 0, err
		}
	}

	ret, err := ev.finish()
	if e.Debug {
		log.Printf("result: %v (err=%v)", ret, err)
	}
	return ret, err
}

func (ev *evaluation) step(tok Token) error {
	switch t := tok.(type) {
	case NumberToken:
		ev.operands = append(ev.operands, t.Value)

	case OperatorToken:
		if len(ev.operands) == 0 {
			return &types.Error{
				Tag:  types.OperatorWithoutOperandsTag,
				Char: t.Symbol,
				Err:  fmt.Errorf("operator %c without operands", t.Symbol),
			}
		}
		if !isArithmetic(t.Symbol) {
			return &types.Error{
				Tag:  types.InvalidOperatorTag,
				Char: t.Symbol,
				Err:  fmt.Errorf("invalid operator: %q", t.Symbol),
			}
		}
		if ev.pending {
			if err := ev.reduce(); err != nil {
				return err
			}
		}
		ev.operators = append(ev.operators, t.Symbol)
		ev.pending = true

	case LeftParenToken:
		ev.operators = append(ev.operators, openParen)
		ev.pending = false

	case RightParenToken:
		if len(ev.operators) == 0 {
			return &types.Error{Tag: types.UnexpectedRightParenthesisTag}
		}
		for ev.operators[len(ev.operators)-1] != openParen {
			if err := ev.reduce(); err != nil {
				return err
			}
			if len(ev.operators) == 0 {
				return &types.Error{Tag: types.UnexpectedRightParenthesisTag}
			}
		}
		ev.operators = ev.operators[:len(ev.operators)-1]
		ev.pending = false

	default:
		return types.NewError(types.MalformedExpressionTag, "unknown token: %T", tok)
	}
	return nil
}

// reduce applies the topmost operator to the two most recent operands, the
// most recent one being the right operand.
func (ev *evaluation) reduce() error {
	op := ev.operators[len(ev.operators)-1]
	if len(ev.operands) < 2 {
		return types.NewError(types.MalformedExpressionTag, "operator %c needs 2 operands but got %d", op, len(ev.operands))
	}

	right := ev.operands[len(ev.operands)-1]
	left := ev.operands[len(ev.operands)-2]
	ev.operands = ev.operands[:len(ev.operands)-2]
	ev.operators = ev.operators[:len(ev.operators)-1]

	v, err := apply(op, left, right)
	if err != nil {
		return err
	}
	ev.operands = append(ev.operands, v)
	return nil
}

func (ev *evaluation) finish() (float64, error) {
	for _, op := range ev.operators {
		if op == openParen {
			return 0, &types.Error{Tag: types.UnmatchedLeftParenthesisTag}
		}
	}

	for len(ev.operators) != 0 {
		if err := ev.reduce(); err != nil {
			return 0, err
		}
	}

	switch len(ev.operands) {
	case 0:
		return 0, types.NewError(types.MalformedExpressionTag, "empty expression")
	case 1:
		return ev.operands[0], nil
	default:
		return 0, types.NewError(types.TooManyOperandsTag, "%d operands left without operators", len(ev.operands))
	}
}
