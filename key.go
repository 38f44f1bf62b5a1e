package jfif

// SegmentKey identifies a segment's logical type: its marker, plus, for
// markers whose segments can carry more than one identified sub-use (APP0
// and APP1 in practice), the NUL-terminated ASCII identifier string found
// at the start of the body. A key with HasIdentifier false matches only
// segments that carry no identifier at all; it is not a wildcard.
type SegmentKey struct {
	Marker         Marker
	Identifier     string
	HasIdentifier  bool
}

// NewKey builds a key for a marker that carries no identifier (SOI, EOI,
// SOS, and any generic segment without one).
func NewKey(marker Marker) SegmentKey {
	return SegmentKey{Marker: marker}
}

// NewIdentifiedKey builds a key for a marker/identifier pair, such as
// (APP1, "Exif") or (APP0, "JFIF").
func NewIdentifiedKey(marker Marker, identifier string) SegmentKey {
	return SegmentKey{Marker: marker, Identifier: identifier, HasIdentifier: true}
}

// Equal reports whether two keys denote the same logical segment type.
func (k SegmentKey) Equal(other SegmentKey) bool {
	return k.Marker == other.Marker &&
		k.HasIdentifier == other.HasIdentifier &&
		(!k.HasIdentifier || k.Identifier == other.Identifier)
}

func (k SegmentKey) String() string {
	if k.HasIdentifier {
		return k.Marker.String() + "/" + k.Identifier
	}
	return k.Marker.String()
}

// SOIKey is the key of the mandatory leading Start-of-Image segment.
// Container operations that take a "preceding keys" list treat SOI as
// implicitly present even when the caller omits it.
var SOIKey = NewKey(SOI)
