package jfif

import "context"

// JFXXFormat is the JFXX thumbnail format discriminator byte.
type JFXXFormat uint8

const (
	JFXXFormatJPEG           JFXXFormat = 0x10
	JFXXFormatPalettePacked  JFXXFormat = 0x11
	JFXXFormatRGB            JFXXFormat = 0x13
)

var jfxxKey = NewIdentifiedKey(APP0, "JFXX")

// JFXXThumbnail is implemented by the three JFXX sub-payload shapes.
type JFXXThumbnail interface {
	jfxxFormat() JFXXFormat
	readFrom(ctx context.Context, r ByteReader, length SegmentLength) (SegmentLength, error)
	writeTo(ctx context.Context, w ByteWriter) error
	byteLen() (int, error)
}

// JFXXJpegThumbnail wraps a nested SOI...EOI JPEG stream, stored whole
// (markers included) so WriteBody can reproduce it byte for byte.
type JFXXJpegThumbnail struct{ Data []byte }

func (*JFXXJpegThumbnail) jfxxFormat() JFXXFormat { return JFXXFormatJPEG }

func (t *JFXXJpegThumbnail) readFrom(ctx context.Context, r ByteReader, length SegmentLength) (SegmentLength, error) {
	var soi [2]byte
	if err := r.ReadExact(ctx, soi[:]); err != nil {
		return length, err
	}
	length, err := length.Take(2)
	if err != nil {
		return length, err
	}
	if soi[0] != MarkerIndicator || Marker(soi[1]) != SOI {
		return length, NewError(ErrShapeMismatch, "JFXX JPEG thumbnail does not start with SOI")
	}
	budget := int(length.Remaining())
	buf := make([]byte, 0, 2+budget)
	buf = append(buf, soi[:]...)
	res, out, err := r.Scan(ctx, buf, 2+budget, isEOIMarker)
	if err != nil {
		return length, err
	}
	if !res.Matched {
		return length, NewError(ErrShapeMismatch, "JFXX JPEG thumbnail never reached an EOI marker")
	}
	// Scan only peeks its terminator so framing can resynchronize; here the
	// EOI belongs to this nested stream, not the next segment, so consume
	// it for real and fold it into the stored thumbnail bytes.
	var eoi [2]byte
	if err := r.ReadExact(ctx, eoi[:]); err != nil {
		return length, err
	}
	out = append(out, eoi[:]...)
	t.Data = out
	consumed := len(out) - 2 // bytes of body consumed beyond the already-accounted-for SOI
	length, err = length.Take(uint16(consumed))
	return length, err
}

func isEOIMarker(buf []byte) int {
	n := len(buf)
	if n >= 2 && buf[n-2] == MarkerIndicator && buf[n-1] == byte(EOI) {
		return 2
	}
	return -1
}

func (t *JFXXJpegThumbnail) writeTo(ctx context.Context, w ByteWriter) error {
	return w.WriteBytes(ctx, t.Data)
}

func (t *JFXXJpegThumbnail) byteLen() (int, error) { return len(t.Data), nil }

// JFXXPaletteThumbnail carries a fixed 256-entry, 3-byte RGB palette plus
// one palette-index byte per pixel.
type JFXXPaletteThumbnail struct {
	Width, Height uint8
	Palette       [768]byte
	Indices       []byte // len must be Width*Height
}

func (*JFXXPaletteThumbnail) jfxxFormat() JFXXFormat { return JFXXFormatPalettePacked }

func (t *JFXXPaletteThumbnail) readFrom(ctx context.Context, r ByteReader, length SegmentLength) (SegmentLength, error) {
	var err error
	if t.Width, err = r.ReadU8(ctx); err != nil {
		return length, err
	}
	if length, err = length.TakeByte(); err != nil {
		return length, err
	}
	if t.Height, err = r.ReadU8(ctx); err != nil {
		return length, err
	}
	if length, err = length.TakeByte(); err != nil {
		return length, err
	}
	if length, err = length.Take(768); err != nil {
		return length, err
	}
	if err := r.ReadExact(ctx, t.Palette[:]); err != nil {
		return length, err
	}
	n := int(t.Width) * int(t.Height)
	if length, err = length.Take(uint16(n)); err != nil {
		return length, err
	}
	t.Indices = make([]byte, n)
	if err := r.ReadExact(ctx, t.Indices); err != nil {
		return length, err
	}
	return length, nil
}

func (t *JFXXPaletteThumbnail) writeTo(ctx context.Context, w ByteWriter) error {
	if err := w.WriteU8(ctx, t.Width); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, t.Height); err != nil {
		return err
	}
	if err := w.WriteBytes(ctx, t.Palette[:]); err != nil {
		return err
	}
	return w.WriteBytes(ctx, t.Indices)
}

func (t *JFXXPaletteThumbnail) byteLen() (int, error) {
	want := int(t.Width) * int(t.Height)
	if len(t.Indices) != want {
		return 0, NewError(ErrShapeMismatch,
			"JFXX palette thumbnail is %dx%d (needs %d index bytes) but Indices has %d", t.Width, t.Height, want, len(t.Indices))
	}
	return 2 + 768 + want, nil
}

// JFXXRGBThumbnail carries an uncompressed 3-byte-per-pixel RGB bitmap.
type JFXXRGBThumbnail struct {
	Width, Height uint8
	RGB           []byte // len must be 3*Width*Height
}

func (*JFXXRGBThumbnail) jfxxFormat() JFXXFormat { return JFXXFormatRGB }

func (t *JFXXRGBThumbnail) readFrom(ctx context.Context, r ByteReader, length SegmentLength) (SegmentLength, error) {
	var err error
	if t.Width, err = r.ReadU8(ctx); err != nil {
		return length, err
	}
	if length, err = length.TakeByte(); err != nil {
		return length, err
	}
	if t.Height, err = r.ReadU8(ctx); err != nil {
		return length, err
	}
	if length, err = length.TakeByte(); err != nil {
		return length, err
	}
	n := int(t.Width) * int(t.Height) * 3
	if length, err = length.Take(uint16(n)); err != nil {
		return length, err
	}
	t.RGB = make([]byte, n)
	if err := r.ReadExact(ctx, t.RGB); err != nil {
		return length, err
	}
	return length, nil
}

func (t *JFXXRGBThumbnail) writeTo(ctx context.Context, w ByteWriter) error {
	if err := w.WriteU8(ctx, t.Width); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, t.Height); err != nil {
		return err
	}
	return w.WriteBytes(ctx, t.RGB)
}

func (t *JFXXRGBThumbnail) byteLen() (int, error) {
	want := int(t.Width) * int(t.Height) * 3
	if len(t.RGB) != want {
		return 0, NewError(ErrShapeMismatch,
			"JFXX RGB thumbnail is %dx%d (needs %d bytes) but RGB has %d", t.Width, t.Height, want, len(t.RGB))
	}
	return 2 + want, nil
}

// JFXXSegment is the optional APP0 "JFXX" segment carrying one of the
// three thumbnail encodings.
type JFXXSegment struct {
	NoOutOfBand
	Thumbnail JFXXThumbnail
}

func NewJFXXSegment() *JFXXSegment { return &JFXXSegment{} }

func (*JFXXSegment) Key() SegmentKey { return jfxxKey }
func (*JFXXSegment) HasLength() bool { return true }

func (s *JFXXSegment) ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error {
	tag, err := r.ReadU8(ctx)
	if err != nil {
		return err
	}
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	var thumb JFXXThumbnail
	switch JFXXFormat(tag) {
	case JFXXFormatJPEG:
		thumb = &JFXXJpegThumbnail{}
	case JFXXFormatPalettePacked:
		thumb = &JFXXPaletteThumbnail{}
	case JFXXFormatRGB:
		thumb = &JFXXRGBThumbnail{}
	default:
		return NewError(ErrUnrecognizedVariant, "unrecognized JFXX thumbnail format tag 0x%02X", tag)
	}
	if _, err := thumb.readFrom(ctx, r, length); err != nil {
		return err
	}
	s.Thumbnail = thumb
	return nil
}

func (s *JFXXSegment) ValidateAndComputeBodyLength() (int, error) {
	if s.Thumbnail == nil {
		return 0, NewError(ErrShapeMismatch, "JFXX segment has no thumbnail set")
	}
	n, err := s.Thumbnail.byteLen()
	if err != nil {
		return 0, err
	}
	return len(jfxxKey.Identifier) + 1 + 1 + n, nil
}

func (s *JFXXSegment) WriteBody(ctx context.Context, w ByteWriter) error {
	if err := writeIdentifier(ctx, w, jfxxKey.Identifier); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, uint8(s.Thumbnail.jfxxFormat())); err != nil {
		return err
	}
	return s.Thumbnail.writeTo(ctx, w)
}
