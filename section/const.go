// Package section defines the fixed-size on-disk structures of a PCDB v3
// file: the header, the outward index table, and each outward's sector
// table — the contract that binds the encoder and the reader.
package section

const (
	// Magic identifies a PCDB file.
	Magic = "PCDB"

	// Version is the only version this package reads or writes.
	Version uint8 = 3

	// HeaderSize is the fixed byte size of the file header.
	HeaderSize = 32

	// OutwardIndexEntrySize is the fixed byte size of one outward index
	// entry.
	OutwardIndexEntrySize = 9

	// OutwardCodeLen is the NUL-padded width of an outward code field.
	OutwardCodeLen = 4

	// SectorEntrySize is the fixed byte size of one sector table entry.
	SectorEntrySize = 14

	// BitmapSize is the fixed byte size of a sector's unit-presence bitmap:
	// 680 bits for 676 possible unit indices (26*26 two-letter suffixes)
	// plus 4 slack bits that must be written and read as zero.
	BitmapSize = 85

	// UnitAlphabetSize is the number of possible two-letter unit suffixes.
	UnitAlphabetSize = 676

	// MaxOutwardCount is the largest outward_count the header's u16 field
	// can represent.
	MaxOutwardCount = 65535

	// MaxBitWidth is the largest bits_lat/bits_lon value the 5-bit flags
	// sub-fields can hold.
	MaxBitWidth = 31
)

// flags_and_bits bit layout within a sector table entry: bit 0 marks the
// coordinates as bit-packed (always set in v3), bit 1 selects list mode
// over bitmap mode, bits 2-6 hold bits_lat, bits 7-11 hold bits_lon (bits
// 12-15 reserved, must read as zero — see the Open Questions resolution in
// the design notes for why bits_lon is masked to 5 bits rather than the
// nominally-reserved 9).
const (
	bitPackedMask = 0x0001
	listModeMask  = 0x0002
	bitsLatShift  = 2
	bitsLatMask   = 0x1F
	bitsLonShift  = 7
	bitsLonMask   = 0x1F
)
