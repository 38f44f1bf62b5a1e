package jfif

import "context"

var exifKey = NewIdentifiedKey(APP1, "Exif")

// ExifSegment carries one slice of an EXIF TIFF buffer behind a single NUL
// pad byte. The buffer is opaque here; tag-level EXIF parsing is out of
// scope, see SerializeExif/DeserializeExif for how multiple ExifSegments are concatenated
// into (and split back out of) one logical buffer.
type ExifSegment struct {
	NoOutOfBand
	Payload []byte
}

func NewExifSegment() *ExifSegment { return &ExifSegment{} }

func (*ExifSegment) Key() SegmentKey { return exifKey }
func (*ExifSegment) HasLength() bool { return true }

func (s *ExifSegment) ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error {
	pad, err := r.ReadU8(ctx)
	if err != nil {
		return err
	}
	if pad != 0 {
		return NewError(ErrShapeMismatch, "Exif segment is missing its NUL pad byte, found 0x%02X", pad)
	}
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	s.Payload = make([]byte, length.Remaining())
	return r.ReadExact(ctx, s.Payload)
}

func (s *ExifSegment) ValidateAndComputeBodyLength() (int, error) {
	return len(exifKey.Identifier) + 1 + 1 + len(s.Payload), nil
}

func (s *ExifSegment) WriteBody(ctx context.Context, w ByteWriter) error {
	if err := writeIdentifier(ctx, w, exifKey.Identifier); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, 0); err != nil {
		return err
	}
	return w.WriteBytes(ctx, s.Payload)
}
