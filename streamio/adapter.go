// Package streamio bridges a blocking io.Reader/io.Writer to the core
// codec's non-blocking, offset-cursor contract (spec.md S4.7). It is
// supplementary: every package upstream of this one works correctly
// driven directly via byte slices, with no dependency on an io.Reader or
// io.Writer existing at all.
package streamio

import "io"

// bufferSize is the default size of a Reader's or Writer's internal buffer,
// matching the teacher's readerBufferSize convention of naming the
// buffer size rather than inlining a magic constant.
const bufferSize = 64 * 1024

// compactionMargin is how close to the end of the buffer the unread tail
// must sit before Reader bothers sliding it to the front (spec.md
// S4.7's compaction rule, grounded on reader.rs's copy_to_front: shift
// only when offset+256 > len(buffer) and the unread tail is shorter than
// the consumed prefix, rather than compacting on every call).
const compactionMargin = 256

// Core is the shape a literal coding session presents to Reader and
// Writer: drive
// one DrainOrFill-style step using caller-owned buffers and offsets,
// returning whichever of the four coder results applies. literal.State's
// EncodeOrDecode and arith.Coder's DrainOrFill both already have this
// shape; Core exists so streamio doesn't need to import either package.
type Core interface {
	Step(in []byte, inOffset *int, out []byte, outOffset *int) Result
}

// Result mirrors arith.Result without importing it, so streamio stays
// usable against any Core implementation with the same four outcomes.
type Result uint8

const (
	Success Result = iota
	NeedsMoreInput
	NeedsMoreOutput
	Failure
)

// Reader adapts a Core running in decode mode to io.Reader: each Read
// call pulls fresh bytes from the wrapped io.Reader into an internal
// ring buffer, feeds them to the core, and returns whatever decoded
// output the core produced.
type Reader struct {
	src  io.Reader
	core Core

	buf    []byte
	offset int
	length int
	eof    bool
	readErr error
}

// NewReader returns a Reader pulling compressed input from src and
// decoding it through core. bufSize of 0 uses the package default.
func NewReader(src io.Reader, core Core, bufSize int) *Reader {
	if bufSize <= 0 {
		bufSize = bufferSize
	}
	return &Reader{src: src, core: core, buf: make([]byte, bufSize)}
}

// Read implements io.Reader. It never returns (0, nil); output is
// returned with a nil error, and once the wrapped reader has hit EOF and
// the core has fully drained, the next call returns (0, io.EOF).
func (r *Reader) Read(p []byte) (int, error) {
	outOffset := 0
	for outOffset == 0 {
		if r.length < len(r.buf) && !r.eof {
			n, err := r.src.Read(r.buf[r.length:])
			if n > 0 {
				r.length += n
			}
			if err != nil {
				if err == io.EOF {
					r.eof = true
				} else {
					r.readErr = err
					r.eof = true
				}
			}
		}

		in := r.buf[r.offset:r.length]
		inOffset := 0
		res := r.core.Step(in, &inOffset, p, &outOffset)
		r.offset += inOffset
		r.compact()

		switch res {
		case Failure:
			if r.readErr != nil {
				return outOffset, r.readErr
			}
			return outOffset, ErrInvalidStream
		case Success:
			if outOffset > 0 {
				return outOffset, nil
			}
			if r.eof && r.offset == r.length {
				if r.readErr != nil {
					return 0, r.readErr
				}
				return 0, io.EOF
			}
			// Nothing produced yet and more input may still arrive; loop
			// around to refill and try again instead of returning the
			// (0, nil) an io.Reader must never produce.
		case NeedsMoreOutput:
			return outOffset, nil
		case NeedsMoreInput:
			if r.eof {
				if r.readErr != nil {
					return outOffset, r.readErr
				}
				return outOffset, io.ErrUnexpectedEOF
			}
			// loop again: more room was freed by compact, or the next
			// r.src.Read call above will make progress.
		}
	}
	return outOffset, nil
}

// compact implements spec.md S4.7's compaction rule.
func (r *Reader) compact() {
	if r.offset == r.length {
		r.offset = 0
		r.length = 0
		return
	}
	unread := r.length - r.offset
	if r.offset+compactionMargin > len(r.buf) && unread < r.offset {
		copy(r.buf, r.buf[r.offset:r.length])
		r.length = unread
		r.offset = 0
	}
}

// Writer adapts a Core running in encode mode to io.Writer: each Write
// call feeds the caller's bytes directly to the core and flushes whatever
// encoded output the core produced, staged in an internal buffer, to dst.
type Writer struct {
	dst  io.Writer
	core Core

	out []byte
}

// NewWriter returns a Writer encoding through core and flushing encoded
// bytes to dst. bufSize of 0 uses the package default.
func NewWriter(dst io.Writer, core Core, bufSize int) *Writer {
	if bufSize <= 0 {
		bufSize = bufferSize
	}
	return &Writer{dst: dst, core: core, out: make([]byte, bufSize)}
}

// Write implements io.Writer, driving the wrapped Core until all of p
// has been consumed.
func (w *Writer) Write(p []byte) (int, error) {
	inOffset := 0
	for inOffset < len(p) {
		outOffset := 0
		res := w.core.Step(p, &inOffset, w.out, &outOffset)
		if outOffset > 0 {
			if _, err := w.dst.Write(w.out[:outOffset]); err != nil {
				return inOffset, err
			}
		}
		if res == Failure {
			return inOffset, ErrInvalidStream
		}
	}
	return inOffset, nil
}

// Flush drains any remaining buffered output the core still owes after
// the last Write, repeatedly calling core.Step with an empty input slice
// until it reports Success.
func (w *Writer) Flush() error {
	in := []byte{}
	for {
		inOffset, outOffset := 0, 0
		res := w.core.Step(in, &inOffset, w.out, &outOffset)
		if outOffset > 0 {
			if _, err := w.dst.Write(w.out[:outOffset]); err != nil {
				return err
			}
		}
		if res == Success {
			return nil
		}
		if res == Failure {
			return ErrInvalidStream
		}
	}
}
