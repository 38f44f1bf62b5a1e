package jfif

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentKeyEqualRequiresSameIdentifierPresence(t *testing.T) {
	noID := NewKey(APP0)
	withEmptyID := NewIdentifiedKey(APP0, "")
	require.False(t, noID.Equal(withEmptyID), "a null identifier must not match an empty-but-present identifier")
}

func TestSegmentKeyEqualMatchesSameIdentifier(t *testing.T) {
	a := NewIdentifiedKey(APP1, "Exif")
	b := NewIdentifiedKey(APP1, "Exif")
	require.True(t, a.Equal(b))
}

func TestSegmentKeyEqualRejectsDifferentIdentifier(t *testing.T) {
	a := NewIdentifiedKey(APP1, "Exif")
	b := NewIdentifiedKey(APP1, XMPNamespace)
	require.False(t, a.Equal(b))
}
