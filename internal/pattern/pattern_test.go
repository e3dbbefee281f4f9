package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "uppercase", in: "math 161", want: "MATH 161"},
		{name: "collapse whitespace", in: "MATH   161", want: "MATH 161"},
		{name: "slash section marker", in: "NUR 213/C", want: "NUR 213C"},
		{name: "dash section marker", in: "NUR 213-C", want: "NUR 213C"},
		{name: "lowercase section marker", in: "nur 213/c", want: "NUR 213C"},
		{name: "compound code untouched", in: "BIOL 301/CHEM 301", want: "BIOL 301/CHEM 301"},
		{name: "trims", in: "  CS 101  ", want: "CS 101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		want    Pattern
		name    string
		in      string
		wantErr bool
	}{
		{name: "exact", in: "MATH 161", want: Exact{Dept: "MATH", Number: "161"}},
		{name: "exact with suffix", in: "NUR 213C", want: Exact{Dept: "NUR", Number: "213", Suffix: "C"}},
		{name: "section marker folds", in: "NUR 213/C", want: Exact{Dept: "NUR", Number: "213", Suffix: "C"}},
		{name: "wildcard", in: "BIOL 3XX", want: Wildcard{Dept: "BIOL", Digits: "3XX"}},
		{name: "range", in: "ANT X00-ANT X29", want: Range{Dept: "ANT", Low: "X00", High: "X29"}},
		{name: "catch all", in: "ANY", want: Any{}},
		{name: "catch all with number", in: "ANY 3XX", want: Any{}},
		{name: "cross-department range", in: "ANT 100-BIO 200", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "161 MATH", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		code    string
		want    bool
	}{
		{name: "exact match", pattern: "MATH 161", code: "MATH 161", want: true},
		{name: "exact mismatch", pattern: "MATH 161", code: "MATH 162", want: false},
		{name: "exact rejects suffixed code", pattern: "MATH 161", code: "MATH 161A", want: false},
		{name: "suffix match", pattern: "NUR 213/C", code: "NUR 213-C", want: true},
		{name: "suffix mismatch", pattern: "NUR 213C", code: "NUR 213B", want: false},
		{name: "wildcard match", pattern: "BIOL 3XX", code: "BIOL 301", want: true},
		{name: "wildcard mismatch", pattern: "BIOL 3XX", code: "BIOL 401", want: false},
		{name: "wildcard department mismatch", pattern: "BIOL 3XX", code: "CHEM 301", want: false},
		{name: "range low block", pattern: "ANT X00-ANT X29", code: "ANT 015", want: true},
		{name: "range excludes outside block", pattern: "ANT X00-ANT X29", code: "ANT 130", want: false},
		{name: "range other hundred block", pattern: "ANT X00-ANT X29", code: "ANT 215", want: true},
		{name: "plain range", pattern: "CS 100-CS 199", code: "CS 150", want: true},
		{name: "plain range excludes", pattern: "CS 100-CS 199", code: "CS 200", want: false},
		{name: "catch all", pattern: "ANY", code: "XYZ 999", want: true},
		{name: "compound code any component", pattern: "CHEM 301", code: "BIOL 301/CHEM 301", want: true},
		{name: "compound code no component", pattern: "PHYS 301", code: "BIOL 301/CHEM 301", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Matches(tt.code), "pattern %s vs code %s", tt.pattern, tt.code)
		})
	}
}

func TestParseGroup(t *testing.T) {
	t.Run("slash aliases", func(t *testing.T) {
		g, err := ParseGroup("BIOL 301/CHEM 301")
		require.NoError(t, err)
		require.Len(t, g, 2)
		assert.True(t, g.Matches("CHEM 301"))
		assert.True(t, g.Matches("BIOL 301"))
		assert.False(t, g.Matches("PHYS 301"))
	})

	t.Run("bare number inherits department", func(t *testing.T) {
		g, err := ParseGroup("BIOL 301/302")
		require.NoError(t, err)
		require.Len(t, g, 2)
		assert.True(t, g.Matches("BIOL 302"))
	})

	t.Run("section marker is not an alias", func(t *testing.T) {
		g, err := ParseGroup("NUR 213/C")
		require.NoError(t, err)
		require.Len(t, g, 1)
		assert.True(t, g.Matches("NUR 213C"))
		assert.False(t, g.Matches("NUR 213"))
	})

	t.Run("bucket detection", func(t *testing.T) {
		g, err := ParseGroup("BIOL 3XX/CHEM 3XX")
		require.NoError(t, err)
		assert.True(t, g.IsBucket())

		g, err = ParseGroup("BIOL 3XX/CHEM 301")
		require.NoError(t, err)
		assert.False(t, g.IsBucket())
	})
}

func TestIsCatchAll(t *testing.T) {
	assert.True(t, IsCatchAll("ANY"))
	assert.True(t, IsCatchAll("any 3XX"))
	assert.False(t, IsCatchAll("ANYTHING 101"))
	assert.False(t, IsCatchAll("MATH 161"))
	assert.False(t, IsCatchAll(""))
}
