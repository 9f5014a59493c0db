package postcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_ValidPostcodes(t *testing.T) {
	cases := []struct {
		in   string
		want Parsed
	}{
		{"M1 1AA", Parsed{Outward: "M1", Sector: 1, UnitIndex: 0}},
		{"SW1A 1AA", Parsed{Outward: "SW1A", Sector: 1, UnitIndex: 0}},
		{"m1 1aa", Parsed{Outward: "M1", Sector: 1, UnitIndex: 0}},
		{" M1  1AA ", Parsed{Outward: "M1", Sector: 1, UnitIndex: 0}},
		{"M11AA", Parsed{Outward: "M1", Sector: 1, UnitIndex: 0}},
		{"M1 1AB", Parsed{Outward: "M1", Sector: 1, UnitIndex: 1}},
		{"M1 2ZZ", Parsed{Outward: "M1", Sector: 2, UnitIndex: 675}},
	}

	for _, c := range cases {
		got, ok := Parse(c.in)
		require.True(t, ok, c.in)
		require.Equal(t, c.want, got, c.in)
	}
}

func TestParse_CaseAndWhitespaceInsensitive(t *testing.T) {
	variants := []string{"m1 1aa", "M1 1AA", " M1  1AA ", "M11AA"}
	var first Parsed
	for i, v := range variants {
		got, ok := Parse(v)
		require.True(t, ok)
		if i == 0 {
			first = got
		} else {
			require.Equal(t, first, got)
		}
	}
}

func TestParse_RejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"A1",
		"M1 AAA",  // no digit for sector
		"M1 1A",   // too short
		"M1 1A1",  // second unit char not a letter
		"12345678901AA", // outward too long
	}
	for _, c := range cases {
		_, ok := Parse(c)
		require.False(t, ok, c)
	}
}

func TestIsValid(t *testing.T) {
	require.True(t, IsValid("M1 1AA"))
	require.False(t, IsValid("XX"))
}

func TestUnitSuffix_RoundTrip(t *testing.T) {
	for i := 0; i <= MaxUnitIndex; i++ {
		suffix := UnitSuffix(i)
		require.Len(t, suffix, 2)

		parsed, ok := Parse("M1 1" + suffix)
		require.True(t, ok)
		require.Equal(t, i, parsed.UnitIndex)
	}
}

func TestUnitSuffix_PanicsOutOfRange(t *testing.T) {
	require.Panics(t, func() { UnitSuffix(-1) })
	require.Panics(t, func() { UnitSuffix(676) })
}

func TestFormat(t *testing.T) {
	require.Equal(t, "M1 1AA", Format("M1", 1, 0))
	require.Equal(t, "SW1A 1AB", Format("SW1A", 1, 1))
}
