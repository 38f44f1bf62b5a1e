package jfif

import "context"

// Segment is implemented by every recognized segment type: the built-in
// ones in this package (SOI, EOI, the APP0/APP1 variants, SOS) and any
// caller-registered type.
type Segment interface {
	// Key identifies this segment's marker and, where relevant, its
	// body identifier string.
	Key() SegmentKey
	// HasLength reports whether this segment carries a 2-byte length
	// field and a body at all (false only for SOI, EOI and the
	// restart markers).
	HasLength() bool
	// ReadBody consumes exactly the declared body from r, given the
	// SegmentLength produced from the wire length field. Implementations
	// that need bytes beyond the declared length (SOS's entropy-coded
	// scan) read past it directly from r; the length only bounds the
	// fixed-format header fields.
	ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error
	// ValidateAndComputeBodyLength checks the segment's invariants and
	// returns the body byte count that WriteBody will emit (identifier
	// and any NUL pad byte included, length field itself excluded).
	ValidateAndComputeBodyLength() (int, error)
	// WriteBody emits the body bytes accounted for by
	// ValidateAndComputeBodyLength.
	WriteBody(ctx context.Context, w ByteWriter) error
	// WriteOutOfBand emits any bytes that follow the declared body and
	// are not counted in the segment's length field (SOS's entropy-coded
	// scan data). Segments without such a payload return nil.
	WriteOutOfBand(ctx context.Context, w ByteWriter) error
}

// NoOutOfBand is embedded by segment types with nothing to emit after
// their declared body.
type NoOutOfBand struct{}

func (NoOutOfBand) WriteOutOfBand(context.Context, ByteWriter) error { return nil }
