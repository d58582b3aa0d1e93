package batch_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/lettercalc/internal/batch"
	"github.com/karupanerura/lettercalc/internal/expression"
	"github.com/karupanerura/lettercalc/internal/types"
)

const suiteYAML = `
dialect: mnemonic
cases:
  - name: left to right
    expr: 3a2c4
    expect: 20
  - name: division
    expr: 32a2d2
    expect: 17
  - name: spanning group
    expr: 3ae4c66fb32
    expect: 235
  - 500a10b66c32
  - name: symbols
    expr: 3 + (4 * 66) - 32
    dialect: symbolic
    expect: 235
  - name: unclosed
    expr: 3ae4
    error: UnmatchedLeftParenthesis
  - name: wrong expectation
    expr: 1a1
    expect: 3
  - name: symbols in mnemonic dialect
    expr: 1+1
`

func TestParseSuiteYAML(t *testing.T) {
	t.Parallel()

	suite, err := batch.ParseSuiteYAML(strings.NewReader(suiteYAML))
	if err != nil {
		t.Fatal(err)
	}
	if suite.Dialect != expression.MnemonicDialect {
		t.Errorf("unexpected dialect: %s", suite.Dialect)
	}

	names := make([]string, len(suite.Cases))
	for i, c := range suite.Cases {
		names[i] = c.Name
	}
	expected := []string{
		"left to right", "division", "spanning group", "#3", "symbols",
		"unclosed", "wrong expectation", "symbols in mnemonic dialect",
	}
	if diff := cmp.Diff(expected, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if suite.Cases[4].Dialect != expression.SymbolicDialect {
		t.Errorf("unexpected dialect: %s", suite.Cases[4].Dialect)
	}
	if suite.Cases[5].ExpectError != types.UnmatchedLeftParenthesisTag {
		t.Errorf("unexpected error tag: %s", suite.Cases[5].ExpectError)
	}
}

func TestSuiteRun(t *testing.T) {
	t.Parallel()

	suite, err := batch.ParseSuiteYAML(strings.NewReader(suiteYAML))
	if err != nil {
		t.Fatal(err)
	}

	for _, parallel := range []int{0, 1, 3} {
		results, err := suite.Run(context.Background(), parallel)
		if err != nil {
			t.Fatal(err)
		}

		got := make(map[string]bool, len(results))
		for i, r := range results {
			if r.Name != suite.Cases[i].Name {
				t.Errorf("results[%d]: out of order: %s", i, r.Name)
			}
			got[r.Name] = r.Passed
		}
		expected := map[string]bool{
			"left to right":               true,
			"division":                    true,
			"spanning group":              true,
			"#3":                          true,
			"symbols":                     true,
			"unclosed":                    true,
			"wrong expectation":           false,
			"symbols in mnemonic dialect": false,
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("parallel=%d: passed mismatch (-want +got):\n%s", parallel, diff)
		}

		if v := results[3].Value; v == nil || float64(*v) != 14208 {
			t.Errorf("unexpected value: %v", v)
		}
		if !types.IsTag(results[7].Err(), types.UnexpectedCharacterTag) {
			t.Errorf("unexpected error: %v", results[7].Err())
		}

		passed, failed := batch.Summary(results)
		if passed != 6 || failed != 2 {
			t.Errorf("unexpected summary: passed=%d failed=%d", passed, failed)
		}
	}
}

func TestSuiteRunCanceled(t *testing.T) {
	t.Parallel()

	suite, err := batch.ParseSuiteJSON(strings.NewReader(`{"cases": ["1a1", "2a2"]}`))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := suite.Run(ctx, 1); err == nil {
		t.Error("should be error")
	}
}

func TestParseSuiteJSONFractionalExpect(t *testing.T) {
	t.Parallel()

	suite, err := batch.ParseSuiteJSON(strings.NewReader(`{"cases": [{"expr": "10/4", "expect": 2.5}, {"expr": "5a5", "expect": 1e1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if e := suite.Cases[0].Expect; e == nil || *e != 2.5 {
		t.Fatalf("unexpected expect: %v", e)
	}

	results, err := suite.Run(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if passed, failed := batch.Summary(results); passed != 2 || failed != 0 {
		t.Errorf("unexpected summary: passed=%d failed=%d", passed, failed)
	}
}

func TestParseSuiteErrors(t *testing.T) {
	t.Parallel()

	for _, source := range []string{
		`{}`,
		`{"cases": []}`,
		`{"dialect": "roman", "cases": ["1"]}`,
		`{"cases": [1]}`,
		`{"cases": [{"expr": "1", "dialect": "roman"}]}`,
		`{"cases": [{"expr": "1", "error": "Oops"}]}`,
		`{"cases": [{"expr": "1", "expect": 1, "error": "TooManyOperands"}]}`,
		`{"cases": [{"expr": "1", "unknown": true}]}`,
		`{"cases": [{"name": "a", "expr": "1"}, {"name": "a", "expr": "2"}]}`,
		`not json`,
	} {
		if _, err := batch.ParseSuiteJSON(strings.NewReader(source)); err == nil {
			t.Errorf("%s: should be error", source)
		} else {
			t.Logf("expected parse error: %v", err)
		}
	}
}
