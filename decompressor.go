// decompressor.go implements the public Decompressor API for
// literal-only decoding, plus a streamio.Core adapter for the decode
// direction.

package litcoder

import (
	"github.com/google/uuid"

	"github.com/brotligo/litcoder/arith"
	"github.com/brotligo/litcoder/literal"
	"github.com/brotligo/litcoder/priors"
	"github.com/brotligo/litcoder/streamio"
)

// Decompressor decodes a sequence of literal runs out of one
// arithmetic-coded byte stream produced by a Compressor constructed with
// matching Options.
//
// A Decompressor instance maintains internal state and is NOT safe for
// concurrent use.
type Decompressor struct {
	opts   Options
	coder  *arith.Coder
	bk     *literal.BlockKeeper
	stride *priors.Collection
	cm     *priors.Collection
	id     uuid.UUID
}

// NewDecompressor creates a new Decompressor configured by opts. opts
// must match the Options the corresponding Compressor was built with;
// nothing in the stream records them for recovery.
func NewDecompressor(opts Options) *Decompressor {
	return &Decompressor{
		opts:   opts,
		coder:  arith.NewDecoder(),
		bk:     opts.blockKeeper(),
		stride: priors.New(),
		cm:     priors.New(),
		id:     uuid.New(),
	}
}

// SessionID returns this Decompressor's diagnostic identity. It has no
// relationship to the Compressor's SessionID; the stream carries no
// session identifier of its own (spec.md S6.8).
func (d *Decompressor) SessionID() uuid.UUID { return d.id }

// DecompressRuns decodes exactly numRuns literal runs from data, in
// order, and returns each run's recovered bytes. It returns
// ErrTruncatedStream if data runs out before all numRuns runs reach
// FullyDecoded.
func (d *Decompressor) DecompressRuns(data []byte, numRuns int) ([][]byte, error) {
	runs := make([][]byte, 0, numRuns)
	inOff := 0
	for i := 0; i < numRuns; i++ {
		st := literal.NewState()
		for {
			outOff := 0
			res := st.EncodeOrDecode(arith.ModeDecode, d.coder, d.bk, d.stride, d.cm, data, &inOff, nil, &outOff)
			if res == arith.Success {
				break
			}
			// Both NeedsMoreInput (ran out of compressed bytes) and any
			// other non-Success result mean data cannot satisfy the
			// remaining runs; DecompressRuns has no way to ask for more.
			return nil, ErrTruncatedStream
		}
		runs = append(runs, st.Cmd.Data)
	}
	return runs, nil
}

// Decompress decodes a single literal run previously produced by
// Compress; equivalent to DecompressRuns(data, 1)[0].
func (d *Decompressor) Decompress(data []byte) ([]byte, error) {
	runs, err := d.DecompressRuns(data, 1)
	if err != nil {
		return nil, err
	}
	return runs[0], nil
}

// decoderCore adapts a Decompressor's session state to streamio.Core,
// decoding numRuns literal runs and concatenating their recovered bytes
// into Step's out buffer, for use behind a streamio.Reader when the
// compressed input arrives incrementally from a blocking io.Reader.
//
// Unlike encoding, decoding fits this contract naturally: the length
// codec determines each run's size from the coded nibbles themselves,
// so a decoderCore never needs to see more than the next few bytes of
// input before it can make progress, and the reconstituted bytes can be
// handed to the caller run by run as they complete rather than all at
// once at the end.
type decoderCore struct {
	d       *Decompressor
	remain  int
	st      *literal.State
	pending []byte
	pendOff int
}

// NewDecoderCore returns a streamio.Core decoding numRuns literal runs
// from the Decompressor's session state, suitable for wrapping in a
// streamio.Reader.
func (d *Decompressor) NewDecoderCore(numRuns int) streamio.Core {
	return &decoderCore{d: d, remain: numRuns, st: literal.NewState()}
}

func (c *decoderCore) Step(in []byte, inOffset *int, out []byte, outOffset *int) streamio.Result {
	for {
		if c.pendOff < len(c.pending) {
			n := copy(out[*outOffset:], c.pending[c.pendOff:])
			c.pendOff += n
			*outOffset += n
			if c.pendOff < len(c.pending) {
				return streamio.NeedsMoreOutput
			}
			c.pending = nil
			c.pendOff = 0
		}

		if c.remain == 0 {
			// Drain whatever is left of in: nothing more will ever be
			// produced, but Reader only recognizes true end-of-stream
			// once its buffer empties out against the wrapped
			// io.Reader's own EOF (spec.md S4.7) — trailing padding
			// bytes this core has no use for must still be consumed so
			// that compaction/EOF detection can proceed instead of
			// stalling forever against a full, un-advancing buffer.
			*inOffset = len(in)
			return streamio.Success
		}

		scratchOff := 0
		res := c.st.EncodeOrDecode(arith.ModeDecode, c.d.coder, c.d.bk, c.d.stride, c.d.cm, in, inOffset, nil, &scratchOff)
		switch res {
		case arith.NeedsMoreInput:
			return streamio.NeedsMoreInput
		case arith.NeedsMoreOutput:
			// literal.State never actually writes through an out buffer
			// (nibbles are coded into Cmd.Data, not streamed bytes), so
			// this arm is unreachable in practice; treat it the same as
			// NeedsMoreInput rather than spinning.
			return streamio.NeedsMoreInput
		case arith.Failure:
			return streamio.Failure
		}

		c.pending = c.st.Cmd.Data
		c.pendOff = 0
		c.remain--
		c.st = literal.NewState()
	}
}
