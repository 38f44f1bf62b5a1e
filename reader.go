package jfif

import "context"

// Reader decodes one marker segment at a time from a ByteReader, using a
// Registry to pick which concrete Segment type to construct.
type Reader struct {
	Stream   ByteReader
	Registry *Registry
}

// NewReader builds a Reader over stream using DefaultRegistry.
func NewReader(stream ByteReader) *Reader {
	return &Reader{Stream: stream, Registry: DefaultRegistry()}
}

// ProbeForStartOfImage reports whether the next two bytes on the stream
// are the SOI marker, without consuming anything. A false result without
// error means the stream is positioned at something other than an image
// (commonly: no more back-to-back streams remain).
func (r *Reader) ProbeForStartOfImage(ctx context.Context) (bool, error) {
	if !r.Stream.EnsureBuffered(ctx, 2) {
		return false, nil
	}
	buf, err := r.Stream.PeekBytes(ctx, 2)
	if err != nil {
		return false, err
	}
	return buf[0] == MarkerIndicator && Marker(buf[1]) == SOI, nil
}

// ReadSegment reads and fully decodes the next segment, dispatching on its
// marker (and, where relevant, its body identifier) via r.Registry.
func (r *Reader) ReadSegment(ctx context.Context) (Segment, error) {
	if err := r.expectMarkerIndicator(ctx); err != nil {
		return nil, err
	}
	marker, err := r.readMarkerByte(ctx)
	if err != nil {
		return nil, err
	}

	if Marker(marker).IsStandalone() {
		return r.standaloneSegment(Marker(marker))
	}

	rawLen, err := r.Stream.ReadU16(ctx)
	if err != nil {
		return nil, err
	}
	length, err := NewSegmentLength(rawLen)
	if err != nil {
		return nil, err
	}

	m := Marker(marker)
	var factory Factory

	if r.Registry.HasIdentifier(m) {
		id, newLength, err := r.peekIdentifier(ctx, length)
		if err != nil {
			return nil, err
		}
		length = newLength
		if f, ok := r.Registry.LookupIdentified(m, id); ok {
			factory = f
		} else if f, ok := r.Registry.LookupNoIdentifier(m); ok {
			factory = f
		} else {
			seg := NewGenericIdentifiedSegment(m, id)
			if err := seg.ReadBody(ctx, r.Stream, length); err != nil {
				return nil, err
			}
			return seg, nil
		}
	} else if f, ok := r.Registry.LookupNoIdentifier(m); ok {
		factory = f
	} else {
		seg := NewGenericSegment(m)
		if err := seg.ReadBody(ctx, r.Stream, length); err != nil {
			return nil, err
		}
		return seg, nil
	}

	seg := factory()
	if err := seg.ReadBody(ctx, r.Stream, length); err != nil {
		return nil, err
	}
	return seg, nil
}

func (r *Reader) expectMarkerIndicator(ctx context.Context) error {
	b, err := r.Stream.ReadU8(ctx)
	if err != nil {
		return err
	}
	if b != MarkerIndicator {
		return NewError(ErrExpectedMarkerIndicator, "expected marker indicator 0xFF, got 0x%02X", b)
	}
	return nil
}

// readMarkerByte skips any run of extra 0xFF fill bytes and returns the
// first non-0xFF byte as the marker code.
func (r *Reader) readMarkerByte(ctx context.Context) (byte, error) {
	for {
		b, err := r.Stream.ReadU8(ctx)
		if err != nil {
			return 0, err
		}
		if b != MarkerIndicator {
			return b, nil
		}
	}
}

func (r *Reader) standaloneSegment(m Marker) (Segment, error) {
	switch m {
	case SOI:
		return NewSOISegment(), nil
	case EOI:
		return NewEOISegment(), nil
	default:
		return &restartSegment{marker: m}, nil
	}
}

// peekIdentifier reads a NUL-terminated ASCII identifier bounded by the
// segment's declared length, returning the identifier and the length with
// those bytes already consumed.
func (r *Reader) peekIdentifier(ctx context.Context, length SegmentLength) (string, SegmentLength, error) {
	if length.Remaining() == 0 {
		return "", length, nil
	}
	id, err := r.Stream.ReadASCIIString(ctx, int(length.Remaining()), StopAtNul)
	if err != nil {
		return "", length, err
	}
	length, err = length.Take(uint16(len(id) + 1))
	if err != nil {
		return "", length, err
	}
	return id, length, nil
}

// restartSegment represents a lone RST0-7 marker found outside an SOS
// payload. It carries no length and no body.
type restartSegment struct {
	NoOutOfBand
	marker Marker
}

func (s *restartSegment) Key() SegmentKey                                          { return NewKey(s.marker) }
func (*restartSegment) HasLength() bool                                            { return false }
func (*restartSegment) ReadBody(context.Context, ByteReader, SegmentLength) error   { return nil }
func (*restartSegment) ValidateAndComputeBodyLength() (int, error)                 { return 0, nil }
func (*restartSegment) WriteBody(context.Context, ByteWriter) error                 { return nil }
