package batch

import (
	"fmt"

	"github.com/karupanerura/lettercalc/internal/expression"
	"github.com/karupanerura/lettercalc/internal/types"
	"github.com/mitchellh/mapstructure"
)

type suiteDef struct {
	Dialect string `json:"dialect"`
	Cases   []any  `json:"cases"`
}

// caseDef is a case written as a map. A case may also be written as a bare
// expression string.
type caseDef struct {
	Name    string   `mapstructure:"name"`
	Expr    string   `mapstructure:"expr"`
	Dialect string   `mapstructure:"dialect"`
	Expect  *float64 `mapstructure:"expect"`
	Error   string   `mapstructure:"error"`
}

var knownErrorTags = map[types.ErrorTag]bool{
	types.UnexpectedCharacterTag:        true,
	types.OperatorWithoutOperandsTag:    true,
	types.UnexpectedRightParenthesisTag: true,
	types.UnmatchedLeftParenthesisTag:   true,
	types.TooManyOperandsTag:            true,
	types.InvalidOperatorTag:            true,
	types.MalformedExpressionTag:        true,
}

func (d *suiteDef) compile() (*Suite, error) {
	if len(d.Cases) == 0 {
		return nil, fmt.Errorf("empty cases")
	}

	dialect, err := expression.ParseDialect(d.Dialect)
	if err != nil {
		return nil, fmt.Errorf("dialect: %w", err)
	}

	suite := &Suite{
		Dialect: dialect,
		Cases:   make([]*Case, len(d.Cases)),
	}
	names := map[string]bool{}
	for i, raw := range d.Cases {
		var def caseDef
		switch v := raw.(type) {
		case string:
			def.Expr = v

		case map[string]any:
			var md mapstructure.Metadata
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Metadata: &md,
				Result:   &def,
			})
			if err != nil {
				return nil, fmt.Errorf("cases[%d]: %w", i, err)
			}
			if err := decoder.Decode(v); err != nil {
				return nil, fmt.Errorf("cases[%d]: %w", i, err)
			}
			if len(md.Unused) != 0 {
				return nil, fmt.Errorf("cases[%d]: unknown fields %v", i, md.Unused)
			}

		default:
			return nil, fmt.Errorf("cases[%d]: invalid type", i)
		}

		c, err := def.compile(i, dialect)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		if names[c.Name] {
			return nil, fmt.Errorf("cases[%d]: duplicated case name %q", i, c.Name)
		}
		names[c.Name] = true
		suite.Cases[i] = c
	}

	return suite, nil
}

func (d *caseDef) compile(index int, suiteDialect expression.Dialect) (*Case, error) {
	if d.Expect != nil && d.Error != "" {
		return nil, fmt.Errorf("conflict expect and error")
	}

	c := &Case{
		Name:    d.Name,
		Source:  d.Expr,
		Dialect: suiteDialect,
		Expect:  d.Expect,
	}
	if c.Name == "" {
		c.Name = fmt.Sprintf("#%d", index)
	}
	if d.Dialect != "" {
		dialect, err := expression.ParseDialect(d.Dialect)
		if err != nil {
			return nil, fmt.Errorf("dialect: %w", err)
		}
		c.Dialect = dialect
	}
	if d.Error != "" {
		tag := types.ErrorTag(d.Error)
		if !knownErrorTags[tag] {
			return nil, fmt.Errorf("unknown error %q", d.Error)
		}
		c.ExpectError = tag
	}
	return c, nil
}
