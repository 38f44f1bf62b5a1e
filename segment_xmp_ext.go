package jfif

import (
	"context"
	"encoding/hex"
)

// ExtendedXMPNamespace is the APP1 identifier Adobe's Extended-XMP portion
// segments carry.
const ExtendedXMPNamespace = "http://ns.adobe.com/xmp/extension/"

var extXMPKey = NewIdentifiedKey(APP1, ExtendedXMPNamespace)

// ExtendedXMPSegment is one portion of a document too large to fit in a
// single standard XMP packet. Fingerprint identifies the full extended
// document this portion belongs to (all portions of one document share the
// same fingerprint); FullLength is the full document's total byte count;
// StartingOffset is where Portion begins within that document.
type ExtendedXMPSegment struct {
	NoOutOfBand
	Fingerprint    [16]byte
	FullLength     uint32
	StartingOffset uint32
	Portion        []byte
}

func NewExtendedXMPSegment() *ExtendedXMPSegment { return &ExtendedXMPSegment{} }

func (*ExtendedXMPSegment) Key() SegmentKey { return extXMPKey }
func (*ExtendedXMPSegment) HasLength() bool { return true }

func (s *ExtendedXMPSegment) ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error {
	hexStr, err := r.ReadASCIIString(ctx, 32, TrimTrailingNuls)
	if err != nil {
		return err
	}
	if length, err = length.Take(32); err != nil {
		return err
	}
	raw, err := hex.DecodeString(hexStr)
	if err != nil || len(raw) != 16 {
		return NewError(ErrBadExtendedXMP, "Extended-XMP fingerprint %q is not 32 hex digits", hexStr)
	}
	copy(s.Fingerprint[:], raw)

	if s.FullLength, err = r.ReadU32(ctx); err != nil {
		return err
	}
	if length, err = length.Take(4); err != nil {
		return err
	}
	if s.StartingOffset, err = r.ReadU32(ctx); err != nil {
		return err
	}
	if length, err = length.Take(4); err != nil {
		return err
	}
	s.Portion = make([]byte, length.Remaining())
	return r.ReadExact(ctx, s.Portion)
}

func (s *ExtendedXMPSegment) ValidateAndComputeBodyLength() (int, error) {
	if s.StartingOffset+uint32(len(s.Portion)) > s.FullLength {
		return 0, NewError(ErrBadExtendedXMP,
			"Extended-XMP portion [%d, %d) overruns full length %d", s.StartingOffset, s.StartingOffset+uint32(len(s.Portion)), s.FullLength)
	}
	return len(extXMPKey.Identifier) + 1 + 32 + 4 + 4 + len(s.Portion), nil
}

func (s *ExtendedXMPSegment) WriteBody(ctx context.Context, w ByteWriter) error {
	if err := writeIdentifier(ctx, w, extXMPKey.Identifier); err != nil {
		return err
	}
	hexStr := hex.EncodeToString(s.Fingerprint[:])
	upper := make([]byte, len(hexStr))
	for i := 0; i < len(hexStr); i++ {
		c := hexStr[i]
		if c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}
	if err := w.WriteBytes(ctx, upper); err != nil {
		return err
	}
	if err := w.WriteU32(ctx, s.FullLength); err != nil {
		return err
	}
	if err := w.WriteU32(ctx, s.StartingOffset); err != nil {
		return err
	}
	return w.WriteBytes(ctx, s.Portion)
}
