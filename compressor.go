// compressor.go implements the public Compressor API for literal-only
// encoding.

package litcoder

import (
	"github.com/google/uuid"

	"github.com/brotligo/litcoder/arith"
	"github.com/brotligo/litcoder/literal"
	"github.com/brotligo/litcoder/priors"
	"github.com/brotligo/litcoder/streamio"
)

// Compressor encodes a sequence of literal runs (spec.md S6.7) into one
// arithmetic-coded byte stream.
//
// A Compressor instance maintains internal state and is NOT safe for
// concurrent use. Each goroutine should create its own Compressor.
type Compressor struct {
	opts   Options
	coder  *arith.Coder
	bk     *literal.BlockKeeper
	stride *priors.Collection
	cm     *priors.Collection
	id     uuid.UUID
	closed bool
}

// NewCompressor creates a new Compressor configured by opts.
func NewCompressor(opts Options) *Compressor {
	return &Compressor{
		opts:   opts,
		coder:  arith.NewEncoder(),
		bk:     opts.blockKeeper(),
		stride: priors.New(),
		cm:     priors.New(),
		id:     uuid.New(),
	}
}

// SessionID returns this Compressor's diagnostic identity (spec.md S6.8).
// It is pure metadata: nothing in the codec's control flow branches on
// it.
func (c *Compressor) SessionID() uuid.UUID { return c.id }

// CompressRuns encodes each element of runs as one literal command, in
// order, flushes the underlying arithmetic coder once at the end, and
// returns the complete encoded byte stream. A Compressor is single-use:
// calling CompressRuns (or Compress) a second time returns
// ErrWriteAfterClose.
func (c *Compressor) CompressRuns(runs [][]byte) ([]byte, error) {
	if c.closed {
		return nil, ErrWriteAfterClose
	}
	var out []byte
	scratch := make([]byte, 4096)
	for _, run := range runs {
		st := literal.NewState()
		st.Cmd.Data = append([]byte(nil), run...)
		for {
			inOff, outOff := 0, 0
			res := st.EncodeOrDecode(arith.ModeEncode, c.coder, c.bk, c.stride, c.cm, nil, &inOff, scratch, &outOff)
			out = append(out, scratch[:outOff]...)
			if res == arith.Success {
				break
			}
			if res != arith.NeedsMoreOutput {
				return nil, ErrTruncatedStream
			}
		}
	}
	c.coder.Flush()
	for {
		outOff := 0
		res := c.coder.DrainOrFill(nil, new(int), scratch, &outOff)
		out = append(out, scratch[:outOff]...)
		if res == arith.Success {
			break
		}
	}
	c.closed = true
	return out, nil
}

// Compress encodes data as a single literal run; equivalent to
// CompressRuns([][]byte{data}).
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	return c.CompressRuns([][]byte{data})
}

// encoderCore adapts a single already-buffered literal run to
// streamio.Core, letting the encoded output of one run be drained
// through a streamio.Writer when the destination is a slow io.Writer.
// The run's bytes must be fully known before construction: the length
// codec (spec.md S4.3) needs the run's final length before it can emit
// its first nibble, so there is no way to start encoding a run before
// all of its data has arrived.
type encoderCore struct {
	coder  *arith.Coder
	bk     *literal.BlockKeeper
	stride *priors.Collection
	cm     *priors.Collection
	state  *literal.State
}

// NewEncoderCore returns a streamio.Core encoding data as a single
// literal run through the given shared coder/block-keeper/prior state.
// Multiple cores built over the same coder/bk/stride/cm, driven one
// after another, encode a sequence of runs into one continuous stream —
// the same session state Compressor.CompressRuns threads across runs
// internally.
func NewEncoderCore(coder *arith.Coder, bk *literal.BlockKeeper, stride, cm *priors.Collection, data []byte) streamio.Core {
	st := literal.NewState()
	st.Cmd.Data = append([]byte(nil), data...)
	return &encoderCore{coder: coder, bk: bk, stride: stride, cm: cm, state: st}
}

func (e *encoderCore) Step(in []byte, inOffset *int, out []byte, outOffset *int) streamio.Result {
	res := e.state.EncodeOrDecode(arith.ModeEncode, e.coder, e.bk, e.stride, e.cm, in, inOffset, out, outOffset)
	return streamio.Result(res)
}
