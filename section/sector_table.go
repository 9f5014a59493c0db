package section

import (
	"encoding/binary"

	"github.com/postcode-db/pcdb/errs"
	"github.com/postcode-db/pcdb/format"
)

// SectorEntry is one 14-byte entry in an outward's sector table.
type SectorEntry struct {
	SectorNumber   uint8
	UnitCount      uint16
	UnitsRelOffset uint32 // stored on disk as u24, relative to the outward block start
	BaseLatStored  int32  // stored on disk as i24
	BaseLonStored  int32  // stored on disk as i24
	Mode           format.StorageMode
	BitsLat        uint8
	BitsLon        uint8
}

// Bytes serializes the entry to its 14-byte wire form.
func (e SectorEntry) Bytes() []byte {
	b := make([]byte, SectorEntrySize)
	b[0] = e.SectorNumber
	binary.LittleEndian.PutUint16(b[1:3], e.UnitCount)
	putUint24(b[3:6], e.UnitsRelOffset)
	putInt24(b[6:9], e.BaseLatStored)
	putInt24(b[9:12], e.BaseLonStored)

	flags := uint16(bitPackedMask)
	if e.Mode == format.ListMode {
		flags |= listModeMask
	}
	flags |= uint16(e.BitsLat&bitsLatMask) << bitsLatShift
	flags |= uint16(e.BitsLon&bitsLonMask) << bitsLonShift
	binary.LittleEndian.PutUint16(b[12:14], flags)

	return b
}

// ParseSectorTable parses count consecutive SectorEntry records starting at
// data[0].
//
// Returns errs.ErrInvalidSectorTableSize if data is too short to hold count
// entries.
func ParseSectorTable(data []byte, count int) ([]SectorEntry, error) {
	need := count * SectorEntrySize
	if len(data) < need {
		return nil, errs.ErrInvalidSectorTableSize
	}

	entries := make([]SectorEntry, count)
	for i := 0; i < count; i++ {
		off := i * SectorEntrySize
		row := data[off : off+SectorEntrySize]

		flags := binary.LittleEndian.Uint16(row[12:14])
		mode := format.BitmapMode
		if flags&listModeMask != 0 {
			mode = format.ListMode
		}

		entries[i] = SectorEntry{
			SectorNumber:   row[0],
			UnitCount:      binary.LittleEndian.Uint16(row[1:3]),
			UnitsRelOffset: getUint24(row[3:6]),
			BaseLatStored:  getInt24(row[6:9]),
			BaseLonStored:  getInt24(row[9:12]),
			Mode:           mode,
			BitsLat:        uint8((flags >> bitsLatShift) & bitsLatMask),
			BitsLon:        uint8((flags >> bitsLonShift) & bitsLonMask),
		}
	}

	return entries, nil
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func getUint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func putInt24(b []byte, v int32) {
	putUint24(b, uint32(v)&0xFFFFFF)
}

// getInt24 sign-extends a 24-bit two's-complement value to int32.
func getInt24(b []byte) int32 {
	u := getUint24(b)
	if u&0x800000 != 0 {
		u |= 0xFF000000
	}

	return int32(u) //nolint:gosec
}
