// Package varint implements unsigned LEB128 and a delta-sequence helper for
// sorted integer lists, used to store a sector's sparse unit-index list when
// it is cheaper than the fixed 85-byte bitmap.
package varint

import "github.com/postcode-db/pcdb/errs"

// MaxBytes is the longest a single varint this codec will produce or accept
// can be. The codec is scoped to values that fit in 32 bits, which covers
// every offset and index this file format needs (unit indices to 675,
// sector/outward offsets well under 2^32 for a sub-10MB file).
const MaxBytes = 5

// AppendUvarint appends the LEB128 encoding of v to buf and returns the
// extended slice. Each 7-bit group is emitted low-to-high; all but the last
// group have the continuation bit (MSB) set.
func AppendUvarint(buf []byte, v uint32) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}

	return append(buf, byte(v))
}

// Len returns the number of bytes AppendUvarint would emit for v.
func Len(v uint32) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}

	return n
}

// Uvarint decodes a single LEB128 value from the start of data.
//
// Returns the decoded value, the number of bytes consumed, and an error if
// the buffer ends before a terminating byte (errs.ErrVarintTruncated) or the
// value would need more than MaxBytes groups (errs.ErrVarintOverflow).
func Uvarint(data []byte) (uint32, int, error) {
	var result uint32
	var shift uint

	for i := 0; i < MaxBytes; i++ {
		if i >= len(data) {
			return 0, 0, errs.ErrVarintTruncated
		}

		b := data[i]
		result |= uint32(b&0x7F) << shift

		if b < 0x80 {
			return result, i + 1, nil
		}

		shift += 7
	}

	return 0, 0, errs.ErrVarintOverflow
}

// AppendDeltaSequence appends a strictly non-decreasing sequence of values as
// a delta sequence: the first value absolute, each subsequent value as a
// varint of its delta from the previous.
//
// Panics if values is not sorted ascending — callers always pass an
// already-sorted unit-index list, so a violation here means an encoder bug,
// not bad external input.
func AppendDeltaSequence(buf []byte, values []uint32) []byte {
	var prev uint32
	for i, v := range values {
		if i == 0 {
			buf = AppendUvarint(buf, v)
			prev = v

			continue
		}

		if v < prev {
			panic("varint: AppendDeltaSequence: values not sorted ascending")
		}

		buf = AppendUvarint(buf, v-prev)
		prev = v
	}

	return buf
}

// DeltaSequenceLen returns the number of bytes AppendDeltaSequence would emit
// for values, without allocating.
func DeltaSequenceLen(values []uint32) int {
	n := 0
	var prev uint32
	for i, v := range values {
		if i == 0 {
			n += Len(v)
		} else {
			n += Len(v - prev)
		}
		prev = v
	}

	return n
}

// DecodeDeltaSequence decodes exactly count values from the start of data,
// reconstructing the non-decreasing sequence AppendDeltaSequence produced.
//
// Returns the decoded values and the number of bytes consumed.
func DecodeDeltaSequence(data []byte, count int) ([]uint32, int, error) {
	values := make([]uint32, 0, count)
	offset := 0
	var cur uint32

	for i := 0; i < count; i++ {
		v, n, err := Uvarint(data[offset:])
		if err != nil {
			return nil, offset, err
		}
		offset += n

		if i == 0 {
			cur = v
		} else {
			cur += v
		}

		values = append(values, cur)
	}

	return values, offset, nil
}
