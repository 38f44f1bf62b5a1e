package jfif

import "context"

var sosKey = NewKey(SOS)

// SOSComponentSpec selects the Huffman tables one scan component reads
// from during entropy coding.
type SOSComponentSpec struct {
	ComponentID  uint8
	DCSelector   uint8 // 4-bit table index
	ACSelector   uint8 // 4-bit table index
}

// SOSSegment is Start-of-Scan: a small fixed header describing which
// components participate in the scan, immediately followed (outside the
// segment's own declared length) by the entropy-coded payload up to the
// next real marker. Byte-stuffed 0xFF 0x00 pairs and restart markers
// (RST0-7) inside that payload do not terminate it.
type SOSSegment struct {
	Components                     []SOSComponentSpec
	SpectralStart, SpectralEnd     uint8
	ApproxHigh, ApproxLow          uint8 // 4-bit fields
	OutOfBand                      []byte
}

func NewSOSSegment() *SOSSegment { return &SOSSegment{} }

func (*SOSSegment) Key() SegmentKey { return sosKey }
func (*SOSSegment) HasLength() bool { return true }

func (s *SOSSegment) ReadBody(ctx context.Context, r ByteReader, length SegmentLength) error {
	n, err := r.ReadU8(ctx)
	if err != nil {
		return err
	}
	if length, err = length.TakeByte(); err != nil {
		return err
	}
	s.Components = make([]SOSComponentSpec, n)
	for i := range s.Components {
		id, err := r.ReadU8(ctx)
		if err != nil {
			return err
		}
		tables, err := r.ReadU8(ctx)
		if err != nil {
			return err
		}
		if length, err = length.Take(2); err != nil {
			return err
		}
		s.Components[i] = SOSComponentSpec{ComponentID: id, DCSelector: tables >> 4, ACSelector: tables & 0x0F}
	}
	var fixed [3]byte
	if err := r.ReadExact(ctx, fixed[:]); err != nil {
		return err
	}
	if length, err = length.Take(3); err != nil {
		return err
	}
	s.SpectralStart, s.SpectralEnd = fixed[0], fixed[1]
	s.ApproxHigh, s.ApproxLow = fixed[2]>>4, fixed[2]&0x0F

	// Any bytes still declared by the segment length beyond the fixed
	// header are padding; skip them before the out-of-band scan begins.
	if err := r.Skip(ctx, int(length.Remaining())); err != nil {
		return err
	}

	res, out, err := r.Scan(ctx, nil, 0, scanEntropyTerminator)
	if err != nil {
		return err
	}
	if !res.Matched {
		return NewError(ErrShapeMismatch, "scan never reached a terminating marker")
	}
	s.OutOfBand = out
	return nil
}

// scanEntropyTerminator matches when the last two bytes are 0xFF followed
// by a byte that is neither 0x00 (a stuffed literal 0xFF) nor a restart
// marker (which belongs inside the entropy stream, not after it).
func scanEntropyTerminator(buf []byte) int {
	n := len(buf)
	if n < 2 || buf[n-2] != MarkerIndicator {
		return -1
	}
	b := buf[n-1]
	if b == 0x00 || Marker(b).IsRestart() {
		return -1
	}
	return 2
}

func (s *SOSSegment) ValidateAndComputeBodyLength() (int, error) {
	if len(s.Components) > 255 {
		return 0, NewError(ErrShapeMismatch, "SOS has %d components, more than fit in one byte", len(s.Components))
	}
	if s.ApproxHigh > 0x0F || s.ApproxLow > 0x0F {
		return 0, NewError(ErrShapeMismatch, "SOS successive-approximation nibble overflows 4 bits")
	}
	for _, c := range s.Components {
		if c.DCSelector > 0x0F || c.ACSelector > 0x0F {
			return 0, NewError(ErrShapeMismatch, "SOS component %d has a table selector overflowing 4 bits", c.ComponentID)
		}
	}
	return 1 + 2*len(s.Components) + 3, nil
}

func (s *SOSSegment) WriteBody(ctx context.Context, w ByteWriter) error {
	if err := w.WriteU8(ctx, uint8(len(s.Components))); err != nil {
		return err
	}
	for _, c := range s.Components {
		if err := w.WriteU8(ctx, c.ComponentID); err != nil {
			return err
		}
		if err := w.WriteU8(ctx, c.DCSelector<<4|c.ACSelector); err != nil {
			return err
		}
	}
	if err := w.WriteU8(ctx, s.SpectralStart); err != nil {
		return err
	}
	if err := w.WriteU8(ctx, s.SpectralEnd); err != nil {
		return err
	}
	return w.WriteU8(ctx, s.ApproxHigh<<4|s.ApproxLow)
}

// WriteOutOfBand emits the entropy-coded payload captured by ReadBody (or
// set directly by a caller constructing a segment by hand). Callers that
// build OutOfBand themselves are responsible for byte-stuffing any literal
// 0xFF bytes as 0xFF 0x00.
func (s *SOSSegment) WriteOutOfBand(ctx context.Context, w ByteWriter) error {
	return w.WriteBytes(ctx, s.OutOfBand)
}
