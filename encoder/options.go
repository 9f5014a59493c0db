package encoder

// defaultQuantization is the factor lat/lon degrees are multiplied by before
// rounding to an integer: 10^5, giving ~1.1m latitudinal resolution.
const defaultQuantization = 100000

// defaultMaxBitmapBytes is the fixed on-disk bitmap width a sector's
// delta-varint unit list must beat to be chosen over the bitmap.
const defaultMaxBitmapBytes = 85

// Encoder builds a PCDB v3 file from postcode/coordinate records.
//
// The zero-value obtained from NewEncoder() with no options behaves exactly
// as the file format specifies: quantization 10^5, bitmap/list crossover at
// 85 bytes.
type Encoder struct {
	quantization   int
	maxBitmapBytes int
}

// EncoderOption configures an Encoder at construction time, following the
// reference stack's functional-options convention for its encoders.
type EncoderOption func(*Encoder)

// NewEncoder creates an Encoder with the given options applied over the
// defaults.
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{
		quantization:   defaultQuantization,
		maxBitmapBytes: defaultMaxBitmapBytes,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithQuantization overrides the default 10^5 coordinate quantization
// factor. Intended for tests that want a coarser or finer grid without
// touching the file format's bit-width assumptions; validity (that every
// resulting delta still fits in 31 bits) is checked at Build/
// EncodeFromRecords time, not here, matching the reference stack's habit of
// validating at Finish rather than at option-application time.
func WithQuantization(factor int) EncoderOption {
	return func(e *Encoder) {
		e.quantization = factor
	}
}

// WithMaxBitmapBytes overrides the 85-byte bitmap/list crossover threshold.
// Intended for tests that want to exercise the list/bitmap decision boundary
// deterministically. The bitmap itself is always 85 bytes; a non-default
// threshold only changes which sectors use list mode, so the output differs
// from a default build and a list may be 85 bytes or longer.
func WithMaxBitmapBytes(n int) EncoderOption {
	return func(e *Encoder) {
		e.maxBitmapBytes = n
	}
}
