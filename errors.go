package jfif

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies the sub-kind of a JfifError, mirroring the distinct
// failure kinds a caller needs to branch on: a length that runs out before
// a fixed field is fully read, a segment that no registered type recognizes,
// a shape invariant a segment body fails to satisfy, and so on.
type ErrorCode string

const (
	// ErrExpectedMarkerIndicator: the byte read where a 0xFF marker
	// indicator was expected was something else.
	ErrExpectedMarkerIndicator ErrorCode = "expected_marker_indicator"
	// ErrLengthUnderrun: a SegmentLength ran out of remaining bytes before
	// a fixed-size field finished reading.
	ErrLengthUnderrun ErrorCode = "length_underrun"
	// ErrOversizedSegment: a segment's total length would not fit the
	// 16-bit length field (total > 0xFFFF) when writing.
	ErrOversizedSegment ErrorCode = "oversized_segment"
	// ErrUnrecognizedVariant: a tagged union (JFXX thumbnail format, for
	// instance) carried a discriminator value with no known case.
	ErrUnrecognizedVariant ErrorCode = "unrecognized_variant"
	// ErrShapeMismatch: a segment body's declared dimensions and its
	// actual byte count disagree (e.g. thumbnail w*h*3 != buffer length).
	ErrShapeMismatch ErrorCode = "shape_mismatch"
	// ErrBadExtendedXMP: an Extended-XMP fingerprint, full length, or
	// portion set failed to validate (bad hex digits, non-contiguous
	// portions, MD5 mismatch).
	ErrBadExtendedXMP ErrorCode = "bad_extended_xmp"
	// ErrBadXMPRoot: an XMP packet failed to parse as a well-formed
	// x:xmpmeta/rdf:RDF document.
	ErrBadXMPRoot ErrorCode = "bad_xmp_root"
	// ErrTypeMismatch: a caller's SegmentKey matched a stored segment by
	// position but the stored segment's runtime type didn't match what
	// the caller asked for.
	ErrTypeMismatch ErrorCode = "type_mismatch"
)

// JfifError is the single error type this package returns for all
// protocol-level failures. It carries a Code a caller can branch on with
// errors.Is, and wraps an underlying cause where one exists.
type JfifError struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *JfifError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("jfif: %s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("jfif: %s: %s", e.Code, e.Message)
}

func (e *JfifError) Unwrap() error { return e.cause }

// Is makes errors.Is(err, &JfifError{Code: X}) match any JfifError with the
// same code, regardless of message or cause.
func (e *JfifError) Is(target error) bool {
	other, ok := target.(*JfifError)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// NewError builds a JfifError with no wrapped cause.
func NewError(code ErrorCode, format string, args ...interface{}) *JfifError {
	return &JfifError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a JfifError that wraps cause (with a stack attached by
// pkg/errors), preserving it for errors.Unwrap.
func WrapError(cause error, code ErrorCode, format string, args ...interface{}) *JfifError {
	return &JfifError{Code: code, Message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// CodeOf reports the ErrorCode of err if it is (or wraps) a JfifError.
func CodeOf(err error) (ErrorCode, bool) {
	var je *JfifError
	if errors.As(err, &je) {
		return je.Code, true
	}
	return "", false
}

// ErrEndOfStream is returned by stream adapters when a read runs off the
// end of the underlying source. It is distinct from JfifError: running out
// of bytes is a transport failure, not a protocol violation, and callers
// that want to distinguish "no more segments" from "malformed segment"
// check for it with errors.Is.
var ErrEndOfStream = errors.New("jfif: end of stream")
