package jfif

import (
	"bufio"
	"context"
	"io"

	"github.com/pkg/errors"
)

// defaultPeekWindow is the bufio.Reader size used by NewStreamReader. It is
// generous enough to peek a marker indicator plus a 2-byte length field
// without a short read, the same margin abrander-imagemeta's jpeg scanner
// keeps around its own Peek/Discard loop.
const defaultPeekWindow = 4096

// StreamReader is the concrete ByteReader grounded on bufio.Reader's
// Peek/Discard pair: EnsureBuffered and PeekByte never advance the read
// position, matching the probe-then-commit shape the framing reader needs
// at the start of every segment.
type StreamReader struct {
	r *bufio.Reader
}

// NewStreamReader wraps an io.Reader for use by the framing engine and the
// file-level readers.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: bufio.NewReaderSize(r, defaultPeekWindow)}
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (s *StreamReader) ReadU8(ctx context.Context) (byte, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, wrapEOS(err)
	}
	return b, nil
}

func (s *StreamReader) ReadU16(ctx context.Context) (uint16, error) {
	var buf [2]byte
	if err := s.ReadExact(ctx, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

func (s *StreamReader) ReadU32(ctx context.Context) (uint32, error) {
	var buf [4]byte
	if err := s.ReadExact(ctx, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}

func (s *StreamReader) ReadExact(ctx context.Context, buf []byte) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return wrapEOS(err)
	}
	return nil
}

func (s *StreamReader) Skip(ctx context.Context, n int) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	for n > 0 {
		k, err := s.r.Discard(n)
		n -= k
		if err != nil {
			return wrapEOS(err)
		}
	}
	return nil
}

func (s *StreamReader) ReadASCIIString(ctx context.Context, maxBytes int, behavior NulBehavior) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	switch behavior {
	case TrimTrailingNuls:
		buf := make([]byte, maxBytes)
		if err := s.ReadExact(ctx, buf); err != nil {
			return "", err
		}
		end := len(buf)
		for end > 0 && buf[end-1] == 0 {
			end--
		}
		return string(buf[:end]), nil
	default: // StopAtNul
		var out []byte
		for maxBytes == 0 || len(out) < maxBytes {
			b, err := s.ReadU8(ctx)
			if err != nil {
				return "", err
			}
			if b == 0 {
				return string(out), nil
			}
			out = append(out, b)
		}
		return "", NewError(ErrLengthUnderrun, "ASCII identifier did not terminate within %d bytes", maxBytes)
	}
}

// Scan tests predicate against each candidate terminator by peeking ahead
// rather than reading, so a match is never actually removed from the
// stream: only bytes confirmed not to be part of a match get committed via
// ReadU8. This lets a caller like the SOS entropy scan stop exactly at the
// next marker indicator without swallowing it.
func (s *StreamReader) Scan(ctx context.Context, sink []byte, maxBytes int, predicate ScanPredicate) (ScanResult, []byte, error) {
	if err := checkCtx(ctx); err != nil {
		return ScanResult{}, sink, err
	}
	out := sink
	for maxBytes == 0 || len(out) < maxBytes {
		peeked, err := s.PeekBytes(ctx, 2)
		if err != nil {
			peeked, err = s.PeekBytes(ctx, 1)
			if err != nil {
				return ScanResult{Matched: false, BytesCopied: len(out) - len(sink)}, out, err
			}
		}
		candidate := append(append([]byte{}, out...), peeked...)
		if m := predicate(candidate); m >= 0 && m <= len(peeked) {
			return ScanResult{Matched: true, BytesCopied: len(out) - len(sink)}, out, nil
		}
		b, err := s.ReadU8(ctx)
		if err != nil {
			return ScanResult{Matched: false, BytesCopied: len(out) - len(sink)}, out, err
		}
		out = append(out, b)
	}
	return ScanResult{Matched: false, BytesCopied: len(out) - len(sink)}, out, nil
}

func (s *StreamReader) EnsureBuffered(ctx context.Context, n int) bool {
	if err := checkCtx(ctx); err != nil {
		return false
	}
	buf, err := s.r.Peek(n)
	return err == nil && len(buf) == n
}

func (s *StreamReader) PeekByte(ctx context.Context) (byte, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	buf, err := s.r.Peek(1)
	if err != nil {
		return 0, wrapEOS(err)
	}
	return buf[0], nil
}

func (s *StreamReader) PeekBytes(ctx context.Context, n int) ([]byte, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	buf, err := s.r.Peek(n)
	if err != nil {
		return nil, wrapEOS(err)
	}
	return buf, nil
}

func wrapEOS(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.WithMessage(ErrEndOfStream, err.Error())
	}
	return err
}

// StreamWriter is the concrete ByteWriter, a thin bufio.Writer wrapper.
// Callers are expected to call Flush once a whole metadata or
// file has been written; segment-level writes stay unbuffered-visible only
// through the bufio layer, never re-reading what was just written.
type StreamWriter struct {
	w *bufio.Writer
}

// NewStreamWriter wraps an io.Writer for use by the framing engine.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: bufio.NewWriter(w)}
}

// Flush pushes any buffered bytes to the underlying io.Writer.
func (s *StreamWriter) Flush() error { return s.w.Flush() }

func (s *StreamWriter) WriteU8(ctx context.Context, b byte) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	return s.w.WriteByte(b)
}

func (s *StreamWriter) WriteU16(ctx context.Context, v uint16) error {
	return s.WriteBytes(ctx, []byte{byte(v >> 8), byte(v)})
}

func (s *StreamWriter) WriteU32(ctx context.Context, v uint32) error {
	return s.WriteBytes(ctx, []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func (s *StreamWriter) WriteBytes(ctx context.Context, buf []byte) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	_, err := s.w.Write(buf)
	return err
}
