package jfif

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMetadata() *Metadata {
	md := NewMetadata()
	md.Append(NewSOISegment())
	md.Append(NewJFIFSegment())
	md.Append(NewEOISegment())
	return md
}

func TestMetadataFindFirstAndIndex(t *testing.T) {
	md := newTestMetadata()
	seg, ok := md.FindFirst(jfifKey)
	require.True(t, ok)
	require.IsType(t, &JFIFSegment{}, seg)
	require.Equal(t, 1, md.FindFirstIndex(jfifKey))
	require.Equal(t, -1, md.FindFirstIndex(exifKey))
}

func TestMetadataGetIndexAfterImplicitSOI(t *testing.T) {
	md := NewMetadata()
	require.Equal(t, 0, md.GetIndexAfter(nil), "an empty container has nothing after SOI to anchor on")
	md.Append(NewSOISegment())
	require.Equal(t, 1, md.GetIndexAfter(nil), "SOI is implicitly a preceding key even when the caller passes none")
}

func TestMetadataInsertPlacesAfterPrecedingKeys(t *testing.T) {
	md := newTestMetadata()
	exif := NewExifSegment()
	idx := md.Insert(exif, []SegmentKey{jfifKey})
	require.Equal(t, 2, idx)
	require.Same(t, exif, md.Segments()[2])
	require.IsType(t, &EOISegment{}, md.Segments()[3])
}

func TestMetadataGetOrCreateReusesExisting(t *testing.T) {
	md := newTestMetadata()
	seg, created := md.GetOrCreate(jfifKey, func() Segment { return NewJFIFSegment() }, nil)
	require.False(t, created)
	require.Same(t, seg, mustFindFirst(t, md, jfifKey))
}

func TestMetadataGetOrCreateInsertsWhenMissing(t *testing.T) {
	md := newTestMetadata()
	seg, created := md.GetOrCreate(exifKey, func() Segment { return NewExifSegment() }, []SegmentKey{jfifKey})
	require.True(t, created)
	require.Equal(t, 2, md.FindFirstIndex(exifKey))
	require.IsType(t, &ExifSegment{}, seg)
}

func TestMetadataRemoveAllAndFindFirstIndex(t *testing.T) {
	md := newTestMetadata()
	md.Insert(NewExifSegment(), []SegmentKey{jfifKey})
	md.Insert(NewExifSegment(), []SegmentKey{jfifKey, exifKey})
	require.Equal(t, 2, md.RemoveAll(exifKey))
	require.Equal(t, -1, md.FindFirstIndex(exifKey))
}

func TestMetadataRemoveFirstOnlyRemovesOne(t *testing.T) {
	md := newTestMetadata()
	md.Insert(NewExifSegment(), []SegmentKey{jfifKey})
	md.Insert(NewExifSegment(), []SegmentKey{jfifKey, exifKey})
	require.True(t, md.RemoveFirst(exifKey))
	require.Len(t, md.FindAll(exifKey), 1)
}

func mustFindFirst(t *testing.T, md *Metadata, key SegmentKey) Segment {
	t.Helper()
	seg, ok := md.FindFirst(key)
	require.True(t, ok)
	return seg
}
