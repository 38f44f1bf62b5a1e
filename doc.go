// Package jfif reads, edits and writes JFIF (JPEG File Interchange Format)
// container metadata: the marker-segment stream that wraps the compressed
// entropy-coded payload of a .JPG file.
//
// The package exposes a framing engine that deserializes a marker-segment
// sequence from a byte source into an ordered, mutable Metadata container
// and reserializes it byte-accurately, plus two higher level codecs that
// split and reassemble EXIF payloads and Adobe XMP (including the
// Extended-XMP split/merge protocol) across multiple segments.
//
// jfif does not decode entropy-coded pixel data, does not parse EXIF tags,
// and does not enforce JFIF segment ordering rules: callers may construct
// and write out invalid segment sequences.
package jfif
