package section

import (
	"bytes"
	"encoding/binary"

	"github.com/postcode-db/pcdb/errs"
)

// OutwardIndexEntry is one 9-byte entry in the outward index table: a
// NUL-padded 4-character outward code, its sector count, and the absolute
// file offset of its outward block.
type OutwardIndexEntry struct {
	Code              [OutwardCodeLen]byte
	SectorCount       uint8
	SectorIndexOffset uint32
}

// NewOutwardIndexEntry builds an entry for the given (already validated,
// <=4 character) outward code.
func NewOutwardIndexEntry(outward string, sectorCount uint8, offset uint32) OutwardIndexEntry {
	var e OutwardIndexEntry
	copy(e.Code[:], outward)
	e.SectorCount = sectorCount
	e.SectorIndexOffset = offset

	return e
}

// CodeString returns the outward code with trailing NUL padding stripped.
func (e OutwardIndexEntry) CodeString() string {
	return string(bytes.TrimRight(e.Code[:], "\x00"))
}

// Bytes serializes the entry to its 9-byte wire form.
func (e OutwardIndexEntry) Bytes() []byte {
	b := make([]byte, OutwardIndexEntrySize)
	copy(b[0:4], e.Code[:])
	b[4] = e.SectorCount
	binary.LittleEndian.PutUint32(b[5:9], e.SectorIndexOffset)

	return b
}

// ParseOutwardIndex parses count consecutive OutwardIndexEntry records
// starting at data[0].
//
// Returns errs.ErrInvalidOutwardIndexSize if data is too short to hold
// count entries.
func ParseOutwardIndex(data []byte, count int) ([]OutwardIndexEntry, error) {
	need := count * OutwardIndexEntrySize
	if len(data) < need {
		return nil, errs.ErrInvalidOutwardIndexSize
	}

	entries := make([]OutwardIndexEntry, count)
	for i := 0; i < count; i++ {
		off := i * OutwardIndexEntrySize
		var e OutwardIndexEntry
		copy(e.Code[:], data[off:off+4])
		e.SectorCount = data[off+4]
		e.SectorIndexOffset = binary.LittleEndian.Uint32(data[off+5 : off+9])
		entries[i] = e
	}

	return entries, nil
}

// compareCode compares two NUL-padded outward code arrays in ASCII byte
// order, which agrees with lexicographic order on the outward alphabet this
// format uses.
func compareCode(a, b [OutwardCodeLen]byte) int {
	return bytes.Compare(a[:], b[:])
}

// Search performs a binary search for outward in a sorted outward index,
// returning the matching entry and true, or the zero value and false on a
// miss. This is never a fatal error: an absent outward is a query miss.
func Search(entries []OutwardIndexEntry, outward string) (OutwardIndexEntry, bool) {
	if len(outward) > OutwardCodeLen {
		return OutwardIndexEntry{}, false
	}

	var target [OutwardCodeLen]byte
	copy(target[:], outward)

	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := compareCode(entries[mid].Code, target)
		switch {
		case cmp == 0:
			return entries[mid], true
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	return OutwardIndexEntry{}, false
}
