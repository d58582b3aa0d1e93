package expression

import (
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
)

// Parser turns source text into an evaluable Expr. Tokenizer is the only
// implementation in this package; dialects are selected through its field
// so the evaluator never depends on the notation.
type Parser interface {
	Parse(source string) (*Expr, error)
}

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("LETTERCALC_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type Tokenizer struct {
	Dialect Dialect
	Debug   bool
}

var _ Parser = (*Tokenizer)(nil)

func NewTokenizer(dialect Dialect) *Tokenizer {
	return &Tokenizer{Dialect: dialect, Debug: parserDebugLog}
}

func (t *Tokenizer) Tokenize(source string) (Expression, error) {
	tokens, err := newLexer(source, t.Dialect).run()
	if err != nil {
		return nil, err
	}
	if t.Debug {
		log.Printf("tokenized %q (dialect=%s)", source, t.Dialect)
		pp.Fprintln(os.Stderr, tokens)
	}
	return tokens, nil
}

func (t *Tokenizer) Parse(source string) (*Expr, error) {
	tokens, err := t.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return &Expr{Source: source, Tokens: tokens, debug: t.Debug}, nil
}

// Tokenize reads text in the mixed dialect.
func Tokenize(text string) (Expression, error) {
	return NewTokenizer(MixedDialect).Tokenize(text)
}

// Evaluate reduces tokens to a single value.
func Evaluate(tokens Expression) (float64, error) {
	ev := Evaluator{Debug: parserDebugLog}
	return ev.Evaluate(tokens)
}

func ParseExpr(source string) (*Expr, error) {
	return NewTokenizer(MixedDialect).Parse(source)
}

func ParseExprWithDebugOutput(source string) (*Expr, error) {
	t := &Tokenizer{Dialect: MixedDialect, Debug: true}
	return t.Parse(source)
}

// EvaluateString tokenizes source with the given dialect and evaluates it.
func EvaluateString(source string, dialect Dialect) (float64, error) {
	expr, err := NewTokenizer(dialect).Parse(source)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate()
}
