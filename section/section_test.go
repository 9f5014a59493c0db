package section

import (
	"testing"

	"github.com/postcode-db/pcdb/errs"
	"github.com/postcode-db/pcdb/format"
	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	h := Header{
		Version:        Version,
		OutwardCount:   2,
		TotalUnitCount: 5,
		LatOffset:      5148010,
		LonOffset:      -224300,
	}

	data := h.Bytes()
	require.Len(t, data, HeaderSize)

	got, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeader_RejectsShortBuffer(t *testing.T) {
	_, err := ParseHeader(make([]byte, 10))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestHeader_RejectsBadMagic(t *testing.T) {
	data := make([]byte, HeaderSize)
	copy(data, "XXXX")
	_, err := ParseHeader(data)
	require.ErrorIs(t, err, errs.ErrBadMagic)
}

func TestHeader_RejectsUnsupportedVersion(t *testing.T) {
	h := Header{Version: 99, OutwardCount: 1}
	_, err := ParseHeader(h.Bytes())
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestHeader_RejectsInvalidOutwardCount(t *testing.T) {
	h := Header{Version: Version, OutwardCount: 0}
	_, err := ParseHeader(h.Bytes())
	require.ErrorIs(t, err, errs.ErrInvalidOutwardCount)
}

func TestOutwardIndexEntry_RoundTrip(t *testing.T) {
	e := NewOutwardIndexEntry("M1", 2, 1000)
	data := e.Bytes()
	require.Len(t, data, OutwardIndexEntrySize)

	entries, err := ParseOutwardIndex(data, 1)
	require.NoError(t, err)
	require.Equal(t, "M1", entries[0].CodeString())
	require.Equal(t, uint8(2), entries[0].SectorCount)
	require.Equal(t, uint32(1000), entries[0].SectorIndexOffset)
}

func TestOutwardIndexEntry_NulPaddingStripped(t *testing.T) {
	e := NewOutwardIndexEntry("SW1A", 1, 0)
	require.Equal(t, "SW1A", e.CodeString())

	e2 := NewOutwardIndexEntry("M1", 1, 0)
	require.Equal(t, "M1", e2.CodeString())
	require.Equal(t, byte(0), e2.Code[2])
	require.Equal(t, byte(0), e2.Code[3])
}

func TestParseOutwardIndex_RejectsShortBuffer(t *testing.T) {
	_, err := ParseOutwardIndex(make([]byte, 3), 1)
	require.ErrorIs(t, err, errs.ErrInvalidOutwardIndexSize)
}

func TestSearch_FindsAndMisses(t *testing.T) {
	entries := []OutwardIndexEntry{
		NewOutwardIndexEntry("M1", 1, 100),
		NewOutwardIndexEntry("SW1A", 1, 200),
		NewOutwardIndexEntry("W1", 1, 300),
	}

	got, ok := Search(entries, "SW1A")
	require.True(t, ok)
	require.Equal(t, uint32(200), got.SectorIndexOffset)

	_, ok = Search(entries, "XX1")
	require.False(t, ok)
}

func TestSectorEntry_RoundTrip(t *testing.T) {
	e := SectorEntry{
		SectorNumber:   3,
		UnitCount:      42,
		UnitsRelOffset: 123456,
		BaseLatStored:  7777,
		BaseLonStored:  -7777,
		Mode:           format.ListMode,
		BitsLat:        17,
		BitsLon:        14,
	}

	data := e.Bytes()
	require.Len(t, data, SectorEntrySize)

	got, err := ParseSectorTable(data, 1)
	require.NoError(t, err)
	require.Equal(t, e, got[0])
}

func TestSectorEntry_NegativeBaseStoredRoundTrips(t *testing.T) {
	e := SectorEntry{
		SectorNumber:  0,
		BaseLatStored: -8388608, // min i24
		BaseLonStored: 8388607,  // max i24
		Mode:          format.BitmapMode,
	}

	data := e.Bytes()
	got, err := ParseSectorTable(data, 1)
	require.NoError(t, err)
	require.Equal(t, int32(-8388608), got[0].BaseLatStored)
	require.Equal(t, int32(8388607), got[0].BaseLonStored)
}

func TestParseSectorTable_RejectsShortBuffer(t *testing.T) {
	_, err := ParseSectorTable(make([]byte, 2), 1)
	require.ErrorIs(t, err, errs.ErrInvalidSectorTableSize)
}
