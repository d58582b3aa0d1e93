package batch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/karupanerura/lettercalc/internal/expression"
	"github.com/karupanerura/lettercalc/internal/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const tolerance = 0.0000001

type Suite struct {
	Dialect expression.Dialect
	Cases   []*Case
}

type Case struct {
	Name    string
	Source  string
	Dialect expression.Dialect

	// Expect and ExpectError are mutually exclusive. A case with neither
	// passes as long as it evaluates.
	Expect      *float64
	ExpectError types.ErrorTag
}

type Result struct {
	Name    string        `json:"name"`
	Source  string        `json:"expr"`
	Dialect string        `json:"dialect"`
	Tokens  string        `json:"tokens,omitempty"`
	Value   *types.Number `json:"result,omitempty"`
	Error   any           `json:"error,omitempty"`
	Passed  bool          `json:"passed"`
	Reason  string        `json:"reason,omitempty"`

	err error
}

func (r *Result) Err() error {
	return r.err
}

// Run evaluates every case with at most parallel cases in flight (no limit
// when parallel <= 0). Results keep the order of s.Cases.
func (s *Suite) Run(ctx context.Context, parallel int) ([]*Result, error) {
	results := make([]*Result, len(s.Cases))

	eg, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		eg.SetLimit(parallel)
	}
	for i, c := range s.Cases {
		i := i
		c := c
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			results[i] = c.Execute()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Case) Execute() *Result {
	r := &Result{
		Name:    c.Name,
		Source:  c.Source,
		Dialect: c.Dialect.String(),
	}

	expr, err := expression.NewTokenizer(c.Dialect).Parse(c.Source)
	if err != nil {
		c.judgeError(r, err)
		return r
	}
	r.Tokens = expr.Tokens.String()

	v, err := expr.Evaluate()
	if err != nil {
		c.judgeError(r, err)
		return r
	}
	r.Value = lo.ToPtr(types.Number(v))

	switch {
	case c.ExpectError != "":
		r.Reason = fmt.Sprintf("expect %s but got %v", c.ExpectError, v)
	case c.Expect != nil && !sameValue(*c.Expect, v):
		r.Reason = fmt.Sprintf("expect %v but got %v", *c.Expect, v)
	default:
		r.Passed = true
	}
	return r
}

func (c *Case) judgeError(r *Result, err error) {
	r.err = err
	var exception types.Exception
	if errors.As(err, &exception) {
		r.Error = exception.Exception()
	} else {
		r.Error = err.Error()
	}

	switch {
	case c.ExpectError != "" && types.IsTag(err, c.ExpectError):
		r.Passed = true
	case c.ExpectError != "":
		r.Reason = fmt.Sprintf("expect %s but got %v", c.ExpectError, err)
	default:
		r.Reason = err.Error()
	}
}

func sameValue(expected, got float64) bool {
	if math.IsNaN(expected) || math.IsNaN(got) {
		return math.IsNaN(expected) && math.IsNaN(got)
	}
	if math.IsInf(expected, 0) || math.IsInf(got, 0) {
		return expected == got
	}
	return math.Abs(expected-got) < tolerance
}

// Summary counts passed and failed results.
func Summary(results []*Result) (passed, failed int) {
	passed = lo.CountBy(results, func(r *Result) bool {
		return r.Passed
	})
	return passed, len(results) - passed
}
