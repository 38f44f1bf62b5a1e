package jfif

// Metadata is an ordered sequence of Segments: the in-memory form of one
// JFIF marker-segment stream, from its leading SOI through its trailing
// EOI. It does not validate ordering; callers can build and write out
// sequences a real decoder would reject.
type Metadata struct {
	segments []Segment
}

// NewMetadata returns an empty container. Most callers start one with an
// explicit SOI segment appended first.
func NewMetadata() *Metadata { return &Metadata{} }

// Segments returns the live ordered slice of segments. Callers must not
// mutate it directly; use Insert/RemoveAll/RemoveFirst instead.
func (m *Metadata) Segments() []Segment { return m.segments }

// Append adds seg at the end of the sequence.
func (m *Metadata) Append(seg Segment) { m.segments = append(m.segments, seg) }

// FindAll returns every segment whose key equals key, in stream order.
func (m *Metadata) FindAll(key SegmentKey) []Segment {
	var out []Segment
	for _, s := range m.segments {
		if s.Key().Equal(key) {
			out = append(out, s)
		}
	}
	return out
}

// FindFirstIndex returns the index of the first segment matching key, or
// -1 if none match.
func (m *Metadata) FindFirstIndex(key SegmentKey) int {
	for i, s := range m.segments {
		if s.Key().Equal(key) {
			return i
		}
	}
	return -1
}

// FindFirst returns the first segment matching key.
func (m *Metadata) FindFirst(key SegmentKey) (Segment, bool) {
	i := m.FindFirstIndex(key)
	if i < 0 {
		return nil, false
	}
	return m.segments[i], true
}

// FindFirstAs is FindFirst narrowed to a concrete Segment implementation,
// failing with ErrTypeMismatch if the stored segment's runtime type does
// not match T.
func FindFirstAs[T Segment](m *Metadata, key SegmentKey) (T, int, error) {
	var zero T
	i := m.FindFirstIndex(key)
	if i < 0 {
		return zero, -1, nil
	}
	typed, ok := m.segments[i].(T)
	if !ok {
		return zero, i, NewError(ErrTypeMismatch, "segment at key %s is not a %T", key, zero)
	}
	return typed, i, nil
}

// GetIndexAfter returns the index immediately following the last segment
// (in stream order) whose key appears in precedingKeys. SOI is always
// treated as implicitly present in precedingKeys even if the caller omits
// it, since every valid stream begins with one. If none of precedingKeys
// is found (not even SOI), it returns 0.
func (m *Metadata) GetIndexAfter(precedingKeys []SegmentKey) int {
	keys := append([]SegmentKey{SOIKey}, precedingKeys...)
	last := -1
	for i, s := range m.segments {
		for _, k := range keys {
			if s.Key().Equal(k) {
				last = i
				break
			}
		}
	}
	return last + 1
}

// Insert places seg immediately after the last segment matching any key in
// precedingKeys (SOI implicitly included), returning the index it landed
// at.
func (m *Metadata) Insert(seg Segment, precedingKeys []SegmentKey) int {
	idx := m.GetIndexAfter(precedingKeys)
	m.segments = append(m.segments, nil)
	copy(m.segments[idx+1:], m.segments[idx:])
	m.segments[idx] = seg
	return idx
}

// GetOrCreate returns the first segment matching key, constructing one
// with factory and inserting it after precedingKeys if none exists yet.
// It reports whether a new segment was created.
func (m *Metadata) GetOrCreate(key SegmentKey, factory Factory, precedingKeys []SegmentKey) (Segment, bool) {
	if seg, ok := m.FindFirst(key); ok {
		return seg, false
	}
	seg := factory()
	m.Insert(seg, precedingKeys)
	return seg, true
}

// RemoveAll deletes every segment matching key, returning how many were
// removed.
func (m *Metadata) RemoveAll(key SegmentKey) int {
	out := m.segments[:0]
	removed := 0
	for _, s := range m.segments {
		if s.Key().Equal(key) {
			removed++
			continue
		}
		out = append(out, s)
	}
	m.segments = out
	return removed
}

// RemoveFirst deletes the first segment matching key, reporting whether
// one was found.
func (m *Metadata) RemoveFirst(key SegmentKey) bool {
	i := m.FindFirstIndex(key)
	if i < 0 {
		return false
	}
	m.segments = append(m.segments[:i], m.segments[i+1:]...)
	return true
}
