// Package buffer provides a growable byte buffer used by the encoder's
// layout pass.
//
// Unlike the reference stack's pooled buffer (which amortizes allocation
// across many short-lived blob encodes), a pcdb build allocates one output
// buffer per Build/EncodeFromRecords call, plus one per sector for that
// sector's bit writer, and never reuses any of them across calls, so there
// is no pool here, just the growth strategy.
package buffer

// DefaultSize is the initial capacity handed to a fresh Buffer.
const DefaultSize = 1024 * 64 // 64KiB

// Buffer is a growable byte slice with amortized-growth Grow/Extend helpers.
type Buffer struct {
	B []byte
}

// New creates a Buffer with the given initial capacity.
func New(initialSize int) *Buffer {
	return &Buffer{B: make([]byte, 0, initialSize)}
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Len returns the length of the buffer.
func (b *Buffer) Len() int {
	return len(b.B)
}

// Grow ensures the buffer can hold at least n more bytes without
// reallocating, doubling capacity (or growing by n if larger) each time it
// must reallocate.
func (b *Buffer) Grow(n int) {
	available := cap(b.B) - len(b.B)
	if available >= n {
		return
	}

	growBy := cap(b.B)
	if growBy < n {
		growBy = n
	}
	if growBy < DefaultSize {
		growBy = DefaultSize
	}

	newBuf := make([]byte, len(b.B), len(b.B)+growBy)
	copy(newBuf, b.B)
	b.B = newBuf
}

// AppendBytes appends data to the buffer, growing as needed.
func (b *Buffer) AppendBytes(data []byte) {
	b.Grow(len(data))
	b.B = append(b.B, data...)
}

// ExtendOrGrow extends the buffer's length by n zero bytes, growing the
// backing array first if necessary, and returns the start offset of the new
// region.
func (b *Buffer) ExtendOrGrow(n int) int {
	start := len(b.B)
	b.Grow(n)
	b.B = b.B[:start+n]

	return start
}
