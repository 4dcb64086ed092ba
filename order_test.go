package filesort

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func sortWith(t *testing.T, mode Comparison, descending bool, locale language.Tag, lines ...string) []string {
	t.Helper()
	compare, err := NewCompareFunc(mode, descending, locale)
	require.NoError(t, err)
	lines = slices.Clone(lines)
	slices.SortStableFunc(lines, compare)
	return lines
}

func TestNewCompareFunc(t *testing.T) {
	for _, tc := range []struct {
		name       string
		mode       Comparison
		descending bool
		locale     language.Tag
		input      []string
		want       []string
	}{
		{"ordinal", Ordinal, false, language.Und,
			[]string{"c", "a", "B"}, []string{"B", "a", "c"}},
		{"ordinal descending", Ordinal, true, language.Und,
			[]string{"c", "a", "B"}, []string{"c", "a", "B"}},
		{"ordinal prefix first", Ordinal, false, language.Und,
			[]string{"ab", "a", ""}, []string{"", "a", "ab"}},
		{"ordinal ignore case keeps input order of equal lines", OrdinalIgnoreCase, false, language.Und,
			[]string{"b", "A", "a", "B"}, []string{"A", "a", "b", "B"}},
		{"ordinal ignore case compares upper case", OrdinalIgnoreCase, false, language.Und,
			[]string{"[", "a"}, []string{"a", "["}},
		{"ordinal ignore case descending", OrdinalIgnoreCase, true, language.Und,
			[]string{"a", "C", "b"}, []string{"C", "b", "a"}},
		{"invariant culture", InvariantCulture, false, language.Und,
			[]string{"c", "B", "a"}, []string{"a", "B", "c"}},
		{"invariant culture ignore case", InvariantCultureIgnoreCase, false, language.Und,
			[]string{"b", "A", "a", "B"}, []string{"A", "a", "b", "B"}},
		{"current culture german", CurrentCulture, false, language.German,
			[]string{"z", "ö", "o"}, []string{"o", "ö", "z"}},
		{"current culture swedish", CurrentCulture, false, language.Swedish,
			[]string{"z", "ö", "o"}, []string{"o", "z", "ö"}},
		{"current culture ignore case descending", CurrentCultureIgnoreCase, true, language.English,
			[]string{"a", "C", "b"}, []string{"C", "b", "a"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sortWith(t, tc.mode, tc.descending, tc.locale, tc.input...))
		})
	}
}

func TestNewCompareFuncEquality(t *testing.T) {
	for _, mode := range []Comparison{OrdinalIgnoreCase, CurrentCultureIgnoreCase, InvariantCultureIgnoreCase} {
		compare, err := NewCompareFunc(mode, false, language.English)
		require.NoError(t, err)
		assert.Zero(t, compare("Apple", "aPPLE"), mode.String())
		assert.Negative(t, compare("apple", "Banana"), mode.String())
	}
	for _, mode := range []Comparison{Ordinal, CurrentCulture, InvariantCulture} {
		compare, err := NewCompareFunc(mode, false, language.English)
		require.NoError(t, err)
		assert.NotZero(t, compare("Apple", "aPPLE"), mode.String())
		assert.Zero(t, compare("same", "same"), mode.String())
	}
}

func TestNewCompareFuncDescendingSwaps(t *testing.T) {
	pairs := [][2]string{{"a", "b"}, {"b", "a"}, {"x", "x"}, {"", "z"}}
	for mode := range comparisonNames {
		asc, err := NewCompareFunc(Comparison(mode), false, language.Und)
		require.NoError(t, err)
		desc, err := NewCompareFunc(Comparison(mode), true, language.Und)
		require.NoError(t, err)
		for _, p := range pairs {
			assert.Equal(t, asc(p[1], p[0]), desc(p[0], p[1]), "%s %q", Comparison(mode), p)
		}
	}
}

func TestNewCompareFuncUnknownMode(t *testing.T) {
	for _, mode := range []Comparison{-1, Comparison(len(comparisonNames)), 99} {
		compare, err := NewCompareFunc(mode, false, language.Und)
		assert.Nil(t, compare)
		require.ErrorIs(t, err, ErrInvalidArgument)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "Comparison", ce.Field)
	}
}

func TestCompareOrdinalIgnoreCase(t *testing.T) {
	for _, tc := range []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "a", -1},
		{"a", "", 1},
		{"abc", "ABC", 0},
		{"abc", "ABD", -1},
		{"straße", "STRASSE", 1}, // ß has no single rune upper case
		{"émile", "ÉMILE", 0},
		{"\xff", "\xfe", 1},
		{"a\xff", "A\xff", 0},
		{"a", "\xff", -1},
		{"\xc4", "Ā", 1}, // invalid bytes sort after every rune
		{"\xc4", "\U0010FFFF", 1},
		{"ÿ", "\xc4", -1},
	} {
		assert.Equal(t, tc.want, compareOrdinalIgnoreCase(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestCompareOrdinalIgnoreCaseTotalOrder(t *testing.T) {
	lines := []string{
		"", "a", "A", "b", "Ā", "ā", "ÿ", "Ÿ", "\xc4", "\xc4\x80", "\xff", "\xfe",
		"a\xff", "A\xfe", "\U0010FFFF", "\uFFFD", "straße", "STRASSE", "z\xc4", "Z",
	}
	sign := func(c int) int { return cmp.Compare(c, 0) }
	for _, a := range lines {
		for _, b := range lines {
			ab := compareOrdinalIgnoreCase(a, b)
			assert.Equal(t, -sign(ab), sign(compareOrdinalIgnoreCase(b, a)), "antisymmetry %q %q", a, b)
			for _, c := range lines {
				bc := compareOrdinalIgnoreCase(b, c)
				if ab <= 0 && bc <= 0 {
					assert.LessOrEqual(t, compareOrdinalIgnoreCase(a, c), 0, "transitivity %q <= %q <= %q", a, b, c)
				}
			}
		}
	}
}

func TestParseComparison(t *testing.T) {
	for i, name := range ComparisonNames() {
		c, err := ParseComparison(name)
		require.NoError(t, err)
		assert.Equal(t, Comparison(i), c)
		assert.Equal(t, name, c.String())
	}

	c, err := ParseComparison("Ordinal-Ignore-Case")
	require.NoError(t, err)
	assert.Equal(t, OrdinalIgnoreCase, c)

	_, err = ParseComparison("natural")
	require.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, "Comparison(9)", Comparison(9).String())
}

func TestComparisonNamesCopy(t *testing.T) {
	names := ComparisonNames()
	names[0] = "changed"
	assert.Equal(t, "ordinal", Ordinal.String())
}
