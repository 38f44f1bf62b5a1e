package jfif

var builtinFactories = []Factory{
	func() Segment { return NewSOISegment() },
	func() Segment { return NewEOISegment() },
	func() Segment { return NewJFIFSegment() },
	func() Segment { return NewJFXXSegment() },
	func() Segment { return NewExifSegment() },
	func() Segment { return NewXMPSegment() },
	func() Segment { return NewExtendedXMPSegment() },
	func() Segment { return NewSOSSegment() },
}
