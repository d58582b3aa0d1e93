package expression

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Dialect selects which character classes the tokenizer accepts for
// operators and grouping.
type Dialect int

const (
	// MixedDialect accepts both the mnemonic letters and the literal symbols.
	MixedDialect Dialect = iota
	// MnemonicDialect accepts only the letters a-f.
	MnemonicDialect
	// SymbolicDialect accepts only + - * / ( ).
	SymbolicDialect
)

var mnemonicSymbolMap = map[rune]rune{
	'a': '+',
	'b': '-',
	'c': '*',
	'd': '/',
	'e': '(',
	'f': ')',
}

var symbolMnemonicMap = lo.Invert(mnemonicSymbolMap)

var dialectNames = map[Dialect]string{
	MixedDialect:    "mixed",
	MnemonicDialect: "mnemonic",
	SymbolicDialect: "symbolic",
}

var dialectsByName = lo.Invert(dialectNames)

func ParseDialect(name string) (Dialect, error) {
	if name == "" {
		return MixedDialect, nil
	}
	d, ok := dialectsByName[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown dialect %q (expected one of mixed, mnemonic, symbolic)", name)
	}
	return d, nil
}

func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// UnmarshalFlag implements flags.Unmarshaler.
func (d *Dialect) UnmarshalFlag(value string) error {
	v, err := ParseDialect(value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Dialect) UnmarshalText(b []byte) error {
	return d.UnmarshalFlag(string(b))
}

// translate maps an operator or grouping character to its symbol.
func (d Dialect) translate(c rune) (rune, bool) {
	if d != SymbolicDialect {
		if sym, ok := mnemonicSymbolMap[c]; ok {
			return sym, true
		}
	}
	if d != MnemonicDialect {
		if _, ok := symbolMnemonicMap[c]; ok {
			return c, true
		}
	}
	return 0, false
}
