package jfif

import "context"

// GenericSegment is the fallback for any marker/identifier combination
// with no registered type: the body is kept as an opaque buffer so the
// segment can still be located, reordered, and reserialized byte for
// byte even though its contents are not understood.
type GenericSegment struct {
	NoOutOfBand
	marker        Marker
	identifier    string
	hasIdentifier bool
	Body          []byte
}

// NewGenericSegment builds a generic segment for marker with no
// identifier.
func NewGenericSegment(marker Marker) *GenericSegment {
	return &GenericSegment{marker: marker}
}

// NewGenericIdentifiedSegment builds a generic segment whose body starts
// with identifier (discovered by the reader but unmapped in the registry).
func NewGenericIdentifiedSegment(marker Marker, identifier string) *GenericSegment {
	return &GenericSegment{marker: marker, identifier: identifier, hasIdentifier: true}
}

func (g *GenericSegment) Key() SegmentKey {
	return SegmentKey{Marker: g.marker, Identifier: g.identifier, HasIdentifier: g.hasIdentifier}
}

func (*GenericSegment) HasLength() bool { return true }

func (g *GenericSegment) ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error {
	g.Body = make([]byte, length.Remaining())
	return r.ReadExact(ctx, g.Body)
}

func (g *GenericSegment) ValidateAndComputeBodyLength() (int, error) {
	n := len(g.Body)
	if g.hasIdentifier {
		n += len(g.identifier) + 1
	}
	return n, nil
}

func (g *GenericSegment) WriteBody(ctx context.Context, w ByteWriter) error {
	if g.hasIdentifier {
		if err := writeIdentifier(ctx, w, g.identifier); err != nil {
			return err
		}
	}
	return w.WriteBytes(ctx, g.Body)
}
