package jfif

import "context"

// SOISegment is the mandatory Start-of-Image marker: no length field, no
// body, always first.
type SOISegment struct{ NoOutOfBand }

func NewSOISegment() *SOISegment { return &SOISegment{} }

func (*SOISegment) Key() SegmentKey { return SOIKey }
func (*SOISegment) HasLength() bool { return false }
func (*SOISegment) ReadBody(context.Context, ByteReader, SegmentLength) error { return nil }
func (*SOISegment) ValidateAndComputeBodyLength() (int, error)               { return 0, nil }
func (*SOISegment) WriteBody(context.Context, ByteWriter) error              { return nil }

// EOISegment is the mandatory End-of-Image marker: no length field, no
// body, always last.
type EOISegment struct{ NoOutOfBand }

func NewEOISegment() *EOISegment { return &EOISegment{} }

var eoiKey = NewKey(EOI)

func (*EOISegment) Key() SegmentKey { return eoiKey }
func (*EOISegment) HasLength() bool { return false }
func (*EOISegment) ReadBody(context.Context, ByteReader, SegmentLength) error { return nil }
func (*EOISegment) ValidateAndComputeBodyLength() (int, error)               { return 0, nil }
func (*EOISegment) WriteBody(context.Context, ByteWriter) error              { return nil }
