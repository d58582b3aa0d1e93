package expression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/karupanerura/lettercalc/internal/types"
)

type lexer struct {
	source  string
	dialect Dialect
	digits  strings.Builder
	tokens  Expression
}

func newLexer(source string, dialect Dialect) *lexer {
	return &lexer{
		source:  source,
		dialect: dialect,
		tokens:  make(Expression, 0, len(source)),
	}
}

func (l *lexer) run() (Expression, error) {
	for _, c := range l.source {
		switch {
		case '0' <= c && c <= '9':
			l.digits.WriteRune(c)
		case c == ' ', c == '\t', c == '\n', c == '\r':
			// skip white spaces, the current number continues
		default:
			sym, ok := l.dialect.translate(c)
			if !ok {
				return nil, &types.Error{
					Tag:  types.UnexpectedCharacterTag,
					Char: c,
					Err:  fmt.Errorf("unexpected character: %q", c),
				}
			}
			l.flush()
			l.tokens = append(l.tokens, symbolToken(sym))
		}
	}

	l.flush()
	return l.tokens, nil
}

func (l *lexer) flush() {
	if l.digits.Len() == 0 {
		return
	}

	s := l.digits.String()
	l.digits.Reset()

	// beyond the float64 range ParseFloat yields +Inf with ErrRange
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic(fmt.Sprintf("should not reach here: digits=%s: %v", s, err))
	}

	l.tokens = append(l.tokens, NumberToken{Value: v})
}
