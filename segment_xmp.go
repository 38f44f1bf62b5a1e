package jfif

import (
	"context"
	"unicode/utf16"
)

// XMPNamespace is the APP1 identifier string Adobe's standard XMP packet
// segments carry.
const XMPNamespace = "http://ns.adobe.com/xap/1.0/"

var xmpKey = NewIdentifiedKey(APP1, XMPNamespace)

// XMPSegment is the APP1 "http://ns.adobe.com/xap/1.0/" segment: the
// standalone (or Extended-XMP base) XMP packet.
//
// Packet holds the decoded text. RawBytes, when non-nil, is written
// verbatim instead of re-encoding Packet as UTF-8 — SerializeXMP uses
// this to emit the base document as UTF-16 without a byte-order mark,
// while a caller constructing a segment by hand can just set
// Packet and get plain UTF-8 on the wire.
type XMPSegment struct {
	NoOutOfBand
	Packet   string
	RawBytes []byte
}

func NewXMPSegment() *XMPSegment { return &XMPSegment{} }

func (*XMPSegment) Key() SegmentKey { return xmpKey }
func (*XMPSegment) HasLength() bool { return true }

func (s *XMPSegment) ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error {
	raw := make([]byte, length.Remaining())
	if err := r.ReadExact(ctx, raw); err != nil {
		return err
	}
	s.RawBytes = raw
	s.Packet = decodeXMPBytes(raw)
	return nil
}

func (s *XMPSegment) ValidateAndComputeBodyLength() (int, error) {
	if len(s.Packet) == 0 && len(s.RawBytes) == 0 {
		return 0, NewError(ErrBadXMPRoot, "XMP packet is empty")
	}
	return len(xmpKey.Identifier) + 1 + len(s.payloadBytes()), nil
}

func (s *XMPSegment) payloadBytes() []byte {
	if s.RawBytes != nil {
		return s.RawBytes
	}
	return []byte(s.Packet)
}

func (s *XMPSegment) WriteBody(ctx context.Context, w ByteWriter) error {
	if err := writeIdentifier(ctx, w, xmpKey.Identifier); err != nil {
		return err
	}
	return w.WriteBytes(ctx, s.payloadBytes())
}

// decodeXMPBytes sniffs BOM-less UTF-16 (the encoding this package's own
// XMP codec writes) versus plain UTF-8 (the common encoding found in
// camera- and tool-written files), and decodes accordingly.
func decodeXMPBytes(raw []byte) string {
	if len(raw) >= 2 {
		switch {
		case raw[0] == 0xFE && raw[1] == 0xFF:
			return utf16BEToString(raw[2:])
		case raw[0] == 0xFF && raw[1] == 0xFE:
			return utf16LEToString(raw[2:])
		case looksLikeBOMlessUTF16BE(raw):
			return utf16BEToString(raw)
		}
	}
	return string(raw)
}

// looksLikeBOMlessUTF16BE is a heuristic: ASCII-range XMP text encoded as
// UTF-16BE has a NUL in every even-indexed byte. A handful of bytes is
// enough to distinguish this from UTF-8 text, which practically never
// contains a literal NUL.
func looksLikeBOMlessUTF16BE(raw []byte) bool {
	n := len(raw)
	if n < 8 || n%2 != 0 {
		return false
	}
	sample := n
	if sample > 64 {
		sample = 64
	}
	for i := 0; i < sample; i += 2 {
		if raw[i] != 0 {
			return false
		}
	}
	return true
}

func utf16BEToString(raw []byte) string {
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return string(utf16.Decode(units))
}

func utf16LEToString(raw []byte) string {
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i+1])<<8 | uint16(raw[2*i])
	}
	return string(utf16.Decode(units))
}

// encodeUTF16BENoBOM renders s as big-endian UTF-16 with no byte-order
// mark, the wire form SerializeXMP writes for the base document.
func encodeUTF16BENoBOM(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}
