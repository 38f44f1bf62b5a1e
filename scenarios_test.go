package jfif

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, md *Metadata) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(NewStreamWriter(&buf))
	require.NoError(t, WriteOne(context.Background(), w, md))
	sw := w.Stream.(*StreamWriter)
	require.NoError(t, sw.Flush())
	return buf.Bytes()
}

// S1: the smallest legal stream is just SOI immediately followed by EOI.
func TestScenarioMinimalFile(t *testing.T) {
	md := NewMetadata()
	md.Append(NewSOISegment())
	md.Append(NewEOISegment())
	out := roundTrip(t, md)
	require.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xD9}, out)

	reader := NewReader(NewStreamReader(bytes.NewReader(out)))
	got, err := ReadOne(context.Background(), reader, Control{})
	require.NoError(t, err)
	require.Len(t, got.Segments(), 2)
	require.Equal(t, SOIKey, got.Segments()[0].Key())
	require.Equal(t, eoiKey, got.Segments()[1].Key())
}

// S2: a JFIF APP0 segment with no thumbnail round-trips byte for byte.
func TestScenarioJFIFRoundTrip(t *testing.T) {
	md := NewMetadata()
	md.Append(NewSOISegment())
	jfifSeg := NewJFIFSegment()
	jfifSeg.HDensity, jfifSeg.VDensity = 72, 72
	md.Append(jfifSeg)
	md.Append(NewEOISegment())

	out := roundTrip(t, md)

	reader := NewReader(NewStreamReader(bytes.NewReader(out)))
	got, err := ReadOne(context.Background(), reader, Control{})
	require.NoError(t, err)
	back := roundTrip(t, got)
	require.Equal(t, out, back)

	readBack, ok := got.FindFirst(jfifKey)
	require.True(t, ok)
	require.Equal(t, uint16(72), readBack.(*JFIFSegment).HDensity)
}

// S3: two back-to-back JFIF streams concatenated in one source are read as
// two distinct Metadata values.
func TestScenarioBackToBackStreams(t *testing.T) {
	one := NewMetadata()
	one.Append(NewSOISegment())
	one.Append(NewEOISegment())

	var buf bytes.Buffer
	w := NewWriter(NewStreamWriter(&buf))
	ctx := context.Background()
	require.NoError(t, WriteOne(ctx, w, one))
	require.NoError(t, WriteOne(ctx, w, one))
	require.NoError(t, w.Stream.(*StreamWriter).Flush())

	reader := NewReader(NewStreamReader(bytes.NewReader(buf.Bytes())))
	all, err := ReadAll(ctx, reader, Control{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

// S4: an SOS segment's out-of-band scan preserves byte-stuffed 0xFF 0x00
// pairs and embedded restart markers, stopping only at a real marker.
func TestScenarioSOSRoundTripWithStuffingAndRestarts(t *testing.T) {
	sos := NewSOSSegment()
	sos.Components = []SOSComponentSpec{{ComponentID: 1, DCSelector: 0, ACSelector: 0}}
	sos.SpectralStart, sos.SpectralEnd = 0, 63
	entropy := []byte{0x12, 0xFF, 0x00, 0x34, 0xFF, 0xD0, 0x56, 0xFF, 0x00}
	sos.OutOfBand = entropy

	md := NewMetadata()
	md.Append(NewSOISegment())
	md.Append(sos)
	md.Append(NewEOISegment())
	out := roundTrip(t, md)

	reader := NewReader(NewStreamReader(bytes.NewReader(out)))
	got, err := ReadOne(context.Background(), reader, Control{})
	require.NoError(t, err)
	readSOS, ok := got.FindFirst(sosKey)
	require.True(t, ok)
	require.Equal(t, entropy, readSOS.(*SOSSegment).OutOfBand)
}

// S5: an XMP document too large for one base segment is split across
// Extended-XMP portions and reassembled back into equivalent content.
func TestScenarioExtendedXMPSplitAndMerge(t *testing.T) {
	big := make([]byte, 300)
	for i := range big {
		big[i] = byte('a' + i%26)
	}
	xmpDoc := `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/" dc:attr1="` + string(big) + `" dc:attr2="` + string(big) + `" dc:attr3="` + string(big) + `"/>` +
		`</rdf:RDF></x:xmpmeta>`

	md := NewMetadata()
	md.Append(NewSOISegment())
	md.Append(NewEOISegment())

	err := SerializeXMP(md, xmpDoc, XMPWriteOptions{MaxBaseUTF8Bytes: 256})
	require.NoError(t, err)

	require.NotEmpty(t, md.FindAll(extXMPKey), "oversized document must spill into Extended-XMP portions")

	merged, err := DeserializeXMP(md, XMPReadOptions{ThrowOnInvalidSamples: true})
	require.NoError(t, err)
	require.Contains(t, merged, string(big))
}

// S6: an EXIF buffer larger than one segment's budget is split into
// multiple chunks with a small max_bytes_per_segment, and deserializing
// concatenates them back exactly.
func TestScenarioExifSplitAndJoin(t *testing.T) {
	exifBytes := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	md := NewMetadata()
	md.Append(NewSOISegment())
	md.Append(NewEOISegment())

	require.NoError(t, SerializeExif(md, exifBytes, ExifOptions{MaxBytesPerSegment: 4}))
	segs := md.FindAll(exifKey)
	require.Len(t, segs, 3)
	require.Len(t, segs[0].(*ExifSegment).Payload, 4)
	require.Len(t, segs[2].(*ExifSegment).Payload, 1)

	require.Equal(t, exifBytes, DeserializeExif(md))
}
