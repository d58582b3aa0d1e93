package expression

import (
	"strings"

	"github.com/samber/lo"
)

// Expression is a token sequence in source reading order. Evaluation never
// modifies it, so one Expression may be evaluated any number of times and
// from several goroutines.
type Expression []Token

// String renders the expression in symbolic notation, tokens separated by
// spaces.
func (e Expression) String() string {
	return strings.Join(lo.Map(e, func(t Token, _ int) string {
		return t.String()
	}), " ")
}

// Mnemonic renders the expression in the letter notation.
func (e Expression) Mnemonic() string {
	var b strings.Builder
	for _, t := range e {
		switch tok := t.(type) {
		case NumberToken:
			b.WriteString(tok.String())
		case OperatorToken:
			b.WriteRune(symbolMnemonicMap[tok.Symbol])
		case LeftParenToken:
			b.WriteRune(symbolMnemonicMap['('])
		case RightParenToken:
			b.WriteRune(symbolMnemonicMap[')'])
		}
	}
	return b.String()
}

// Expr is a parsed source text.
type Expr struct {
	Source string
	Tokens Expression

	debug bool
}

func (e *Expr) String() string {
	return e.Source
}

func (e *Expr) Evaluate() (float64, error) {
	ev := Evaluator{Debug: e.debug}
	return ev.Evaluate(e.Tokens)
}
