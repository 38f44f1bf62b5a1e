package jfif

// SegmentLength tracks the 2-byte length field of a segment as it is
// consumed field by field while reading a body. total is the value read
// from the wire (which includes the 2 length bytes themselves); remaining
// is how many body bytes are still unread. The invariant remaining <= total
// holds for the lifetime of the value, and total is always >= 2.
type SegmentLength struct {
	total     uint16
	remaining uint16
}

// NewSegmentLength builds a SegmentLength from a wire value. total must be
// at least 2 (the length field accounts for itself).
func NewSegmentLength(total uint16) (SegmentLength, error) {
	if total < 2 {
		return SegmentLength{}, NewError(ErrLengthUnderrun,
			"segment length %d is smaller than the 2-byte length field itself", total)
	}
	return SegmentLength{total: total, remaining: total - 2}, nil
}

// Total is the original wire value, length bytes included.
func (l SegmentLength) Total() uint16 { return l.total }

// Remaining is how many body bytes are still unconsumed.
func (l SegmentLength) Remaining() uint16 { return l.remaining }

// Take consumes n bytes from the remaining count, returning a JfifError
// tagged ErrLengthUnderrun if n exceeds what remains.
func (l SegmentLength) Take(n uint16) (SegmentLength, error) {
	if n > l.remaining {
		return l, NewError(ErrLengthUnderrun,
			"need %d more bytes but only %d remain in the segment", n, l.remaining)
	}
	l.remaining -= n
	return l, nil
}

// TakeByte is Take(1), the common case of consuming a single fixed field.
func (l SegmentLength) TakeByte() (SegmentLength, error) { return l.Take(1) }
