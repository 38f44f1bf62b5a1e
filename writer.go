package jfif

import "context"

// Writer serializes Segments to a ByteWriter in the wire framing: marker
// indicator, marker byte, length field (for segments that carry one),
// body, then any out-of-band payload.
type Writer struct {
	Stream ByteWriter
}

// NewWriter builds a Writer over stream.
func NewWriter(stream ByteWriter) *Writer { return &Writer{Stream: stream} }

// WriteSegment emits one segment in full, including its out-of-band
// payload if it has one.
func (w *Writer) WriteSegment(ctx context.Context, seg Segment) error {
	if err := w.Stream.WriteU8(ctx, MarkerIndicator); err != nil {
		return err
	}
	if err := w.Stream.WriteU8(ctx, uint8(seg.Key().Marker)); err != nil {
		return err
	}
	if !seg.HasLength() {
		return seg.WriteOutOfBand(ctx, w.Stream)
	}

	bodyLen, err := seg.ValidateAndComputeBodyLength()
	if err != nil {
		return err
	}
	total := bodyLen + 2
	if total > 0xFFFF {
		return NewError(ErrOversizedSegment, "segment %s body is %d bytes, total length %d exceeds the 16-bit length field", seg.Key(), bodyLen, total)
	}
	if err := w.Stream.WriteU16(ctx, uint16(total)); err != nil {
		return err
	}
	if err := seg.WriteBody(ctx, w.Stream); err != nil {
		return err
	}
	return seg.WriteOutOfBand(ctx, w.Stream)
}
