// Package postcode normalizes UK postcode strings into their hierarchical
// (outward, sector, unit index) triple, and back.
//
// Parse is a total function: any string either parses to a valid
// ParsedPostcode or is reported as unparseable. It never panics and never
// returns an error type — callers translate absence into a null lookup
// result or a silently dropped build row.
package postcode

import (
	"strings"
	"unicode"
)

// MaxOutwardLen is the longest an outward code may be.
const MaxOutwardLen = 4

// MaxUnitIndex is the highest valid unit index (26*25 + 25 = 675).
const MaxUnitIndex = 675

// Parsed holds the three-part decomposition of a postcode: the outward
// code, the inward sector digit (0-9), and the inward unit index (0-675).
type Parsed struct {
	Outward   string
	Sector    int
	UnitIndex int
}

// Parse normalizes s and decomposes it into a Parsed triple.
//
// Algorithm: strip all whitespace, uppercase, then require at least 4
// characters remain. The last 3 characters are the inward code: the first
// must be an ASCII digit (the sector), the next two must be ASCII letters
// A-Z (the unit, encoded as 26*(c1-'A') + (c2-'A')). Everything before the
// inward code is the outward, which must be 1-4 ASCII alphanumeric
// characters. Any failed check returns (Parsed{}, false).
func Parse(s string) (Parsed, bool) {
	stripped := stripWhitespace(s)
	upper := strings.ToUpper(stripped)

	if len(upper) < 4 {
		return Parsed{}, false
	}

	outward := upper[:len(upper)-3]
	inward := upper[len(upper)-3:]

	if len(outward) == 0 || len(outward) > MaxOutwardLen || !isAlphanumeric(outward) {
		return Parsed{}, false
	}

	if !isDigit(inward[0]) {
		return Parsed{}, false
	}
	sector := int(inward[0] - '0')

	c1, c2 := inward[1], inward[2]
	if !isUpperLetter(c1) || !isUpperLetter(c2) {
		return Parsed{}, false
	}
	unitIndex := 26*int(c1-'A') + int(c2-'A')

	return Parsed{Outward: outward, Sector: sector, UnitIndex: unitIndex}, true
}

// IsValid reports whether s parses to a valid postcode.
func IsValid(s string) bool {
	_, ok := Parse(s)

	return ok
}

// UnitSuffix returns the two-letter unit suffix for the given unit index,
// the inverse of the encoding Parse applies.
//
// Panics if index is outside [0, MaxUnitIndex] — this is only ever called
// with indices this package itself produced or decoded from a well-formed
// file, never with untrusted external input.
func UnitSuffix(index int) string {
	if index < 0 || index > MaxUnitIndex {
		panic("postcode: UnitSuffix: index out of range")
	}

	c1 := byte('A' + index/26)
	c2 := byte('A' + index%26)

	return string([]byte{c1, c2})
}

// Format reconstructs the canonical "OUTWARD SECTORUU" string form of a
// parsed postcode.
func Format(outward string, sector, unitIndex int) string {
	var b strings.Builder
	b.Grow(len(outward) + 4)
	b.WriteString(outward)
	b.WriteByte(' ')
	b.WriteByte(byte('0' + sector))
	b.WriteString(UnitSuffix(unitIndex))

	return b.String()
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isUpperLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isUpperLetter(c) && !isDigit(c) {
			return false
		}
	}

	return true
}
