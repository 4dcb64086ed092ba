package filesort

import (
	"cmp"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareFunc is a function type for comparing two lines.
// Returns a negative integer if a should be ordered before b, zero if they are equal,
// and a positive integer if a should be ordered after b in the final sorted output.
// It follows the same semantics as strings.Compare.
type CompareFunc func(a, b string) int

// Comparison selects how two lines are compared.
type Comparison int

const (
	// Ordinal compares the raw bytes of each line.
	Ordinal Comparison = iota
	// OrdinalIgnoreCase compares lines rune by rune after upper-casing each rune.
	OrdinalIgnoreCase
	// CurrentCulture uses the collation rules of Config.Locale.
	CurrentCulture
	// CurrentCultureIgnoreCase uses the collation rules of Config.Locale, ignoring case.
	CurrentCultureIgnoreCase
	// InvariantCulture uses the root collation rules, independent of any locale.
	InvariantCulture
	// InvariantCultureIgnoreCase uses the root collation rules, ignoring case.
	InvariantCultureIgnoreCase
)

var comparisonNames = []string{
	Ordinal:                    "ordinal",
	OrdinalIgnoreCase:          "ordinal-ignore-case",
	CurrentCulture:             "current-culture",
	CurrentCultureIgnoreCase:   "current-culture-ignore-case",
	InvariantCulture:           "invariant-culture",
	InvariantCultureIgnoreCase: "invariant-culture-ignore-case",
}

func (c Comparison) String() string {
	if c < 0 || int(c) >= len(comparisonNames) {
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
	return comparisonNames[c]
}

// ParseComparison returns the Comparison named s, as printed by Comparison.String.
// Matching ignores case.
func ParseComparison(s string) (Comparison, error) {
	for i, name := range comparisonNames {
		if strings.EqualFold(s, name) {
			return Comparison(i), nil
		}
	}
	return 0, NewConfigError("Comparison", s, "unknown comparison mode")
}

// ComparisonNames lists the accepted names of every Comparison.
func ComparisonNames() []string {
	return append([]string(nil), comparisonNames...)
}

// NewCompareFunc resolves a comparison mode and direction into a single CompareFunc.
// locale is only consulted by CurrentCulture and CurrentCultureIgnoreCase.
//
// The culture modes hold a collator that must not be shared between goroutines;
// call NewCompareFunc once per sort.
func NewCompareFunc(mode Comparison, descending bool, locale language.Tag) (CompareFunc, error) {
	var base CompareFunc
	switch mode {
	case Ordinal:
		base = strings.Compare
	case OrdinalIgnoreCase:
		base = compareOrdinalIgnoreCase
	case CurrentCulture:
		base = collate.New(locale).CompareString
	case CurrentCultureIgnoreCase:
		base = collate.New(locale, collate.IgnoreCase).CompareString
	case InvariantCulture:
		base = collate.New(language.Und).CompareString
	case InvariantCultureIgnoreCase:
		base = collate.New(language.Und, collate.IgnoreCase).CompareString
	default:
		return nil, NewConfigError("Comparison", mode, "unknown comparison mode")
	}

	if descending {
		return func(a, b string) int {
			return base(b, a)
		}, nil
	}
	return base, nil
}

// compareOrdinalIgnoreCase orders lines by their upper-cased runes.
// Bytes that are not valid UTF-8 sort after every rune, ordered by value.
func compareOrdinalIgnoreCase(a, b string) int {
	for a != "" && b != "" {
		ka, na := foldKey(a)
		kb, nb := foldKey(b)
		if ka != kb {
			return cmp.Compare(ka, kb)
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}

// foldKey returns the sort key of the first rune of s and its width in bytes.
// Every valid rune maps to its upper case, an invalid byte b to
// unicode.MaxRune+1+b, so all keys share one ordering.
func foldKey(s string) (key rune, size int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return unicode.MaxRune + 1 + rune(s[0]), 1
	}
	return unicode.ToUpper(r), size
}
