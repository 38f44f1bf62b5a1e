package jfif

import "context"

// DensityUnits is the JFIFSegment.Units field: how HDensity/VDensity are
// expressed.
type DensityUnits uint8

const (
	DensityUnspecified DensityUnits = 0 // aspect ratio only
	DensityPixelsPerInch DensityUnits = 1
	DensityPixelsPerCm   DensityUnits = 2
)

var jfifKey = NewIdentifiedKey(APP0, "JFIF")

// JFIFSegment is the mandatory APP0 "JFIF" segment: version, pixel
// density, and an optional inline RGB thumbnail.
type JFIFSegment struct {
	NoOutOfBand
	VersionMajor, VersionMinor uint8
	Units                      DensityUnits
	HDensity, VDensity         uint16
	ThumbWidth, ThumbHeight    uint8
	ThumbRGB                   []byte // len must be 3*ThumbWidth*ThumbHeight
}

func NewJFIFSegment() *JFIFSegment { return &JFIFSegment{VersionMajor: 1, VersionMinor: 2} }

func (*JFIFSegment) Key() SegmentKey { return jfifKey }
func (*JFIFSegment) HasLength() bool { return true }

func (s *JFIFSegment) ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error {
	var err error
	if s.VersionMajor, err = r.ReadU8(ctx); err != nil {
		return err
	}
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	if s.VersionMinor, err = r.ReadU8(ctx); err != nil {
		return err
	}
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	units, err := r.ReadU8(ctx)
	if err != nil {
		return err
	}
	s.Units = DensityUnits(units)
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	if s.HDensity, err = r.ReadU16(ctx); err != nil {
		return err
	}
	if length, err = length.Take(2); err != nil {
		return err
	}
	if s.VDensity, err = r.ReadU16(ctx); err != nil {
		return err
	}
	if length, err = length.Take(2); err != nil {
		return err
	}
	if s.ThumbWidth, err = r.ReadU8(ctx); err != nil {
		return err
	}
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	if s.ThumbHeight, err = r.ReadU8(ctx); err != nil {
		return err
	}
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	n := int(s.ThumbWidth) * int(s.ThumbHeight) * 3
	if length, err = length.Take(uint16(n)); err != nil {
		return err
	}
	s.ThumbRGB = make([]byte, n)
	if err := r.ReadExact(ctx, s.ThumbRGB); err != nil {
		return err
	}
	return nil
}

func (s *JFIFSegment) ValidateAndComputeBodyLength() (int, error) {
	want := int(s.ThumbWidth) * int(s.ThumbHeight) * 3
	if len(s.ThumbRGB) != want {
		return 0, NewError(ErrShapeMismatch,
			"JFIF thumbnail is %dx%d (needs %d RGB bytes) but ThumbRGB has %d", s.ThumbWidth, s.ThumbHeight, want, len(s.ThumbRGB))
	}
	return len(jfifKey.Identifier) + 1 + 9 + len(s.ThumbRGB), nil
}

func (s *JFIFSegment) WriteBody(ctx context.Context, w ByteWriter) error {
	if err := writeIdentifier(ctx, w, jfifKey.Identifier); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, s.VersionMajor); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, s.VersionMinor); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, uint8(s.Units)); err != nil {
		return err
	}
	if err := w.WriteU16(ctx, s.HDensity); err != nil {
		return err
	}
	if err := w.WriteU16(ctx, s.VDensity); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, s.ThumbWidth); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, s.ThumbHeight); err != nil {
		return err
	}
	return w.WriteBytes(ctx, s.ThumbRGB)
}

// writeIdentifier writes an ASCII identifier followed by its NUL
// terminator, shared by every identified APP0/APP1 body.
func writeIdentifier(ctx context.Context, w ByteWriter, id string) error {
	if err := w.WriteBytes(ctx, []byte(id)); err != nil {
		return err
	}
	return w.WriteU8(ctx, 0)
}
