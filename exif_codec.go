package jfif

// DefaultMaxExifBytesPerSegment is the largest EXIF payload one segment
// can carry while still fitting the 16-bit segment length field: 0xFFFF
// total, minus the 2-byte length field, minus the 6-byte "Exif\0\0"
// identifier-plus-pad.
const DefaultMaxExifBytesPerSegment = 0xFFFF - 2 - 6

// ExifOptions configures SerializeExif, a flat options struct passed by
// value in the same style as Control.
type ExifOptions struct {
	// MaxBytesPerSegment bounds how much of the EXIF buffer one segment
	// carries; 0 selects DefaultMaxExifBytesPerSegment.
	MaxBytesPerSegment int
}

func (o ExifOptions) maxBytes() int {
	if o.MaxBytesPerSegment <= 0 {
		return DefaultMaxExifBytesPerSegment
	}
	return o.MaxBytesPerSegment
}

// DeserializeExif concatenates every non-empty APP1 "Exif" segment's
// payload in md, in stream order, into one logical EXIF buffer. It returns
// nil if there are no such segments or all of them are empty.
func DeserializeExif(md *Metadata) []byte {
	var buf []byte
	for _, seg := range md.FindAll(exifKey) {
		e, ok := seg.(*ExifSegment)
		if !ok || len(e.Payload) == 0 {
			continue
		}
		buf = append(buf, e.Payload...)
	}
	return buf
}

// SerializeExif splits exifBytes across one or more APP1 "Exif" segments
// of at most opts.MaxBytesPerSegment bytes each, reusing any existing Exif
// segments in place (so other segments keep their relative position) and
// inserting or removing segments only as needed to match the new chunk
// count. Each new segment is inserted after the last SOI, JFIF/JFXX APP0
// or Exif segment in md, so added chunks follow the existing ones in order
// and a first Exif segment lands right after the leading APP0 segments,
// where encoders conventionally place EXIF data.
func SerializeExif(md *Metadata, exifBytes []byte, opts ExifOptions) error {
	maxBytes := opts.maxBytes()
	var chunks [][]byte
	for off := 0; off < len(exifBytes); off += maxBytes {
		end := off + maxBytes
		if end > len(exifBytes) {
			end = len(exifBytes)
		}
		chunks = append(chunks, exifBytes[off:end])
	}
	if len(exifBytes) == 0 {
		chunks = nil
	}

	existing := md.FindAll(exifKey)
	// exifKey is included so each newly inserted chunk lands after the
	// most recently placed one (whether reused or just inserted) instead
	// of always landing at the same fixed spot right after JFIF/JFXX,
	// which would insert later chunks ahead of earlier ones.
	precedingKeys := []SegmentKey{jfifKey, jfxxKey, exifKey}

	for i, chunk := range chunks {
		if i < len(existing) {
			existing[i].(*ExifSegment).Payload = chunk
			continue
		}
		seg := NewExifSegment()
		seg.Payload = chunk
		md.Insert(seg, precedingKeys)
	}

	if len(chunks) < len(existing) {
		for _, stale := range existing[len(chunks):] {
			removeSegmentByIdentity(md, stale)
		}
	}
	return nil
}

// removeSegmentByIdentity deletes the first segment in md that is exactly
// the same Segment value as target, used when multiple segments share a
// key and positional removal (RemoveFirst by key) would not pick the
// right one.
func removeSegmentByIdentity(md *Metadata, target Segment) {
	segs := md.Segments()
	for i, s := range segs {
		if s == target {
			md.segments = append(md.segments[:i], md.segments[i+1:]...)
			return
		}
	}
}
