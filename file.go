package jfif

import "context"

// ReadOne reads a single JFIF stream (SOI through EOI) from reader. It
// returns (nil, nil) if the stream is not positioned at an SOI — the
// signal ReadAll uses to stop after the last back-to-back stream in a
// concatenated file.
func ReadOne(ctx context.Context, reader *Reader, toDo Control) (*Metadata, error) {
	ok, err := reader.ProbeForStartOfImage(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	md := NewMetadata()
	for {
		seg, err := reader.ReadSegment(ctx)
		if err != nil {
			return md, err
		}
		md.Append(seg)
		if _, isGeneric := seg.(*GenericSegment); isGeneric {
			toDo.warnf("unrecognized segment %s kept as opaque body", seg.Key())
		}
		if seg.Key().Marker == EOI {
			return md, nil
		}
	}
}

// ReadAll reads every back-to-back JFIF stream from reader until the
// source is exhausted (or not positioned at another SOI).
func ReadAll(ctx context.Context, reader *Reader, toDo Control) ([]*Metadata, error) {
	var all []*Metadata
	for {
		md, err := ReadOne(ctx, reader, toDo)
		if err != nil {
			return all, err
		}
		if md == nil {
			return all, nil
		}
		all = append(all, md)
	}
}

// WriteOne serializes md's segments, in order, to writer.
func WriteOne(ctx context.Context, writer *Writer, md *Metadata) error {
	for _, seg := range md.Segments() {
		if err := writer.WriteSegment(ctx, seg); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll serializes multiple back-to-back streams to writer.
func WriteAll(ctx context.Context, writer *Writer, all []*Metadata) error {
	for _, md := range all {
		if err := WriteOne(ctx, writer, md); err != nil {
			return err
		}
	}
	return nil
}
