package expression

import "strconv"

// Token is one of NumberToken, OperatorToken, LeftParenToken or
// RightParenToken.
type Token interface {
	String() string
	token()
}

type NumberToken struct {
	Value float64
}

type OperatorToken struct {
	Symbol rune
}

type LeftParenToken struct{}

type RightParenToken struct{}

var (
	_ Token = NumberToken{}
	_ Token = OperatorToken{}
	_ Token = LeftParenToken{}
	_ Token = RightParenToken{}
)

func (NumberToken) token()     {}
func (OperatorToken) token()   {}
func (LeftParenToken) token()  {}
func (RightParenToken) token() {}

func (t NumberToken) String() string {
	return strconv.FormatFloat(t.Value, 'f', -1, 64)
}

func (t OperatorToken) String() string {
	return string(t.Symbol)
}

func (LeftParenToken) String() string {
	return "("
}

func (RightParenToken) String() string {
	return ")"
}

// symbolToken returns the token for a symbol already translated by a
// Dialect.
func symbolToken(sym rune) Token {
	switch sym {
	case '(':
		return LeftParenToken{}
	case ')':
		return RightParenToken{}
	default:
		return OperatorToken{Symbol: sym}
	}
}
