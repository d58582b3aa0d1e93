package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	UnexpectedCharacterTag        ErrorTag = "UnexpectedCharacter"
	OperatorWithoutOperandsTag    ErrorTag = "OperatorWithoutOperands"
	UnexpectedRightParenthesisTag ErrorTag = "UnexpectedRightParenthesis"
	UnmatchedLeftParenthesisTag   ErrorTag = "UnmatchedLeftParenthesis"
	TooManyOperandsTag            ErrorTag = "TooManyOperands"
	InvalidOperatorTag            ErrorTag = "InvalidOperator"
	MalformedExpressionTag        ErrorTag = "MalformedExpression"
)

type Category string

const (
	LexicalError    Category = "LexicalError"
	EvaluationError Category = "EvaluationError"
)

var lexicalTags = map[ErrorTag]bool{
	UnexpectedCharacterTag: true,
}

// Category reports whether the tag was raised while tokenizing or while
// evaluating an already tokenized expression.
func (t ErrorTag) Category() Category {
	if lexicalTags[t] {
		return LexicalError
	}
	return EvaluationError
}

type Exception interface {
	error
	Exception() any
}

type Error struct {
	Tag ErrorTag
	// Char is the offending character for UnexpectedCharacter, or the
	// offending operator symbol for InvalidOperator. Zero otherwise.
	Char  rune
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func NewError(tag ErrorTag, format string, args ...any) *Error {
	return &Error{Tag: tag, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same tag, so sentinel values such as
// &Error{Tag: TooManyOperandsTag} work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Tag == e.Tag
}

func (e *Error) Category() Category {
	return e.Tag.Category()
}

func (e *Error) Exception() any {
	tags := []any{e.Tag}
	for err := errors.Unwrap(error(e)); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags":     tags,
		"category": e.Category(),
		"message":  e.Error(),
	}
	if e.Char != 0 {
		o["char"] = string(e.Char)
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

// IsTag reports whether any error in err's chain is an *Error with the tag.
func IsTag(err error, tag ErrorTag) bool {
	return errors.Is(err, &Error{Tag: tag})
}

// TagOf returns the tag of the first *Error in err's chain.
func TagOf(err error) (ErrorTag, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag, true
	}
	return "", false
}
