package jfif

import (
	"fmt"
	"io"
)

// Control is a flat struct of knobs threaded through the file-level
// read/write entry points: a bag of booleans and bounds passed by value
// rather than buried in function signatures. The zero value is a
// reasonable default: no warnings, diagnostics discarded.
type Control struct {
	// Warn enables non-fatal diagnostics to be written to Log. The only
	// one emitted is a notice for each unrecognized segment kept as a
	// GenericSegment; bytes after an EOI that do not start a new SOI are
	// not reported.
	Warn bool
	// Log receives warning text when Warn is set. A nil Log defaults to
	// io.Discard.
	Log io.Writer
}

func (c Control) logger() io.Writer {
	if c.Log == nil {
		return io.Discard
	}
	return c.Log
}

func (c Control) warnf(format string, args ...interface{}) {
	if !c.Warn {
		return
	}
	fmt.Fprintf(c.logger(), "jfif: "+format+"\n", args...)
}
