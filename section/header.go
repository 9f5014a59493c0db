package section

import (
	"encoding/binary"

	"github.com/postcode-db/pcdb/errs"
)

// Header is the fixed 32-byte section at the start of a PCDB file.
type Header struct {
	// Version is the format version; only Version (3) is accepted.
	Version uint8
	// Flags is reserved for future use; must be 0.
	Flags uint8
	// OutwardCount is the number of outward index entries that follow the
	// header, in [1, MaxOutwardCount].
	OutwardCount uint16
	// TotalUnitCount is the total number of postcodes stored in the file.
	TotalUnitCount uint32
	// LatOffset is the minimum quantized latitude over all stored units.
	LatOffset int32
	// LonOffset is the minimum quantized longitude over all stored units.
	LonOffset int32
}

// Bytes serializes the header into a 32-byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], Magic)
	b[4] = h.Version
	b[5] = h.Flags
	binary.LittleEndian.PutUint16(b[6:8], h.OutwardCount)
	binary.LittleEndian.PutUint32(b[8:12], h.TotalUnitCount)
	binary.LittleEndian.PutUint32(b[12:16], uint32(h.LatOffset)) //nolint:gosec
	binary.LittleEndian.PutUint32(b[16:20], uint32(h.LonOffset)) //nolint:gosec
	// b[20:32] is the reserved region, left zero.

	return b
}

// ParseHeader parses a Header from the start of data and validates its
// magic, version, and outward count.
//
// Returns errs.ErrInvalidHeaderSize, errs.ErrBadMagic,
// errs.ErrUnsupportedVersion, or errs.ErrInvalidOutwardCount on failure.
// All are construction-time failures: this function is only ever called
// once, from the reader's constructor.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	if string(data[0:4]) != Magic {
		return Header{}, errs.ErrBadMagic
	}

	h := Header{
		Version:        data[4],
		Flags:          data[5],
		OutwardCount:   binary.LittleEndian.Uint16(data[6:8]),
		TotalUnitCount: binary.LittleEndian.Uint32(data[8:12]),
		LatOffset:      int32(binary.LittleEndian.Uint32(data[12:16])), //nolint:gosec
		LonOffset:      int32(binary.LittleEndian.Uint32(data[16:20])), //nolint:gosec
	}

	if h.Version != Version {
		return Header{}, errs.ErrUnsupportedVersion
	}

	if h.OutwardCount == 0 || h.OutwardCount > MaxOutwardCount {
		return Header{}, errs.ErrInvalidOutwardCount
	}

	return h, nil
}
