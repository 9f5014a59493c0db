// Package errs holds the sentinel errors returned by pcdb's structural,
// construction-time failure paths.
//
// Per-query misses (unknown postcode, outward, sector, unit) are never
// represented here: the reader returns (Result{}, false) for those. Only
// failures that mean "this buffer is not a valid PCDB file" or "this build
// violated an encoder invariant" get a sentinel.
package errs

import "errors"

var (
	// ErrInvalidHeaderSize is returned when a buffer is too short to contain
	// a 32-byte PCDB header.
	ErrInvalidHeaderSize = errors.New("pcdb: invalid header size")

	// ErrBadMagic is returned when the header's magic bytes are not "PCDB".
	ErrBadMagic = errors.New("pcdb: bad magic")

	// ErrUnsupportedVersion is returned when the header's version byte is
	// not 3.
	ErrUnsupportedVersion = errors.New("pcdb: unsupported version")

	// ErrInvalidOutwardCount is returned when the header's outward count is
	// outside [1, 65535].
	ErrInvalidOutwardCount = errors.New("pcdb: invalid outward count")

	// ErrInvalidOutwardIndexSize is returned when the buffer is too short to
	// hold the outward index table the header promises.
	ErrInvalidOutwardIndexSize = errors.New("pcdb: invalid outward index size")

	// ErrInvalidSectorTableSize is returned when a sector table read runs
	// past the end of the buffer.
	ErrInvalidSectorTableSize = errors.New("pcdb: invalid sector table size")

	// ErrBufferUnderrun names a read that would consume bytes past the end of
	// the buffer. No function in this module returns it: the reader reports
	// an unreadable sector table or unit list as a query miss.
	ErrBufferUnderrun = errors.New("pcdb: buffer underrun")

	// ErrBitWidthOverflow is returned when a sector's computed bits_lat or
	// bits_lon would not fit in the 5-bit field reserved for it.
	ErrBitWidthOverflow = errors.New("pcdb: bit width overflow")

	// ErrNegativeDelta is returned when a coordinate delta from its sector
	// minimum is negative, which can only happen if the layout pass has a
	// bug (min/max tracking is inconsistent with the stored deltas).
	ErrNegativeDelta = errors.New("pcdb: negative coordinate delta")

	// ErrVarintOverflow is returned when a varint would need more than 5
	// bytes to decode (the codec is scoped to values that fit in 32 bits).
	ErrVarintOverflow = errors.New("pcdb: varint overflow")

	// ErrVarintTruncated is returned when a varint's continuation byte is
	// missing because the buffer ended first.
	ErrVarintTruncated = errors.New("pcdb: varint truncated")
)
