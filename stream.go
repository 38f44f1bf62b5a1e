package jfif

import "context"

// NulBehavior controls how ReadASCIIString treats the terminator of a
// NUL-terminated identifier string.
type NulBehavior int

const (
	// StopAtNul reads bytes up to and including the first NUL, returning
	// everything before it.
	StopAtNul NulBehavior = iota
	// TrimTrailingNuls reads exactly the requested number of bytes and
	// trims any trailing NUL bytes from the result (used for fixed-width
	// identifier fields that pad with NUL rather than being terminated
	// by it).
	TrimTrailingNuls
)

// ScanPredicate is called by Scan with every byte copied so far (initial
// sink contents included) followed by the bytes peeked ahead but not yet
// consumed; it returns the number of trailing bytes (at the end of
// buf) that constitute a match, or -1 if none of buf matches yet.
type ScanPredicate func(buf []byte) int

// ScanResult reports the outcome of a Scan call.
type ScanResult struct {
	// Matched is true if the predicate found its terminator before the
	// stream ran out or max bytes were copied.
	Matched bool
	// BytesCopied is how many bytes were written to the sink, not
	// counting whatever the predicate identified as the terminator.
	BytesCopied int
}

// ByteReader is the read half of the streaming adapter the framing engine
// is built against. Every method takes a context so a caller can cancel a
// blocked read at any suspension point; all concrete implementations here
// check ctx at the start of every call.
type ByteReader interface {
	ReadU8(ctx context.Context) (byte, error)
	ReadU16(ctx context.Context) (uint16, error)
	ReadU32(ctx context.Context) (uint32, error)
	ReadExact(ctx context.Context, buf []byte) error
	Skip(ctx context.Context, n int) error
	// ReadASCIIString reads an ASCII string according to behavior. For
	// StopAtNul, maxBytes bounds how many bytes may be consumed looking
	// for the terminator (0 means unbounded) and the NUL itself is
	// consumed but not returned. For TrimTrailingNuls, exactly maxBytes
	// bytes are consumed.
	ReadASCIIString(ctx context.Context, maxBytes int, behavior NulBehavior) (string, error)
	// Scan copies bytes into sink until predicate reports a match or
	// maxBytes bytes have been copied (0 means unbounded). The matched
	// terminator bytes are left unconsumed on the stream (only peeked),
	// so framing resynchronizes correctly when the terminator is itself
	// the start of the next thing to read (a marker indicator, say);
	// callers that want the terminator folded into their own data must
	// read it explicitly afterward.
	Scan(ctx context.Context, sink []byte, maxBytes int, predicate ScanPredicate) (ScanResult, []byte, error)
	// EnsureBuffered reports whether at least n bytes are available
	// without blocking past end-of-stream; used to probe for a leading
	// SOI without consuming anything on failure.
	EnsureBuffered(ctx context.Context, n int) bool
	// PeekByte returns the next byte without consuming it.
	PeekByte(ctx context.Context) (byte, error)
	// PeekBytes returns the next n bytes without consuming them. It
	// fails if fewer than n bytes are available.
	PeekBytes(ctx context.Context, n int) ([]byte, error)
}

// ByteWriter is the write half of the streaming adapter.
type ByteWriter interface {
	WriteU8(ctx context.Context, b byte) error
	WriteU16(ctx context.Context, v uint16) error
	WriteU32(ctx context.Context, v uint32) error
	WriteBytes(ctx context.Context, buf []byte) error
}
