package arith

import "github.com/brotligo/litcoder/cdf"

// Mode selects whether a Coder encodes symbols into a byte stream or
// decodes them back out of one. A Coder is built for exactly one mode and
// never switches.
type Mode uint8

const (
	ModeEncode Mode = iota
	ModeDecode
)

// topValue is the renormalization threshold: the coder never lets its
// working range fall below this, the same range coder renormalization invariant
// rangecoding/decoder.go and encoder.go maintain for binary decisions,
// generalized here to the 16-ary case.
const topValue = 1 << 24

// inputLookahead bounds how many fresh bytes a single GetOrPutNibble call
// can ever consume on the decode side: five for the one-time Init and at
// most two per renormalization loop afterward (range never drops below
// topValue/cdf.Total before a symbol is resolved, and each renorm step
// multiplies it by 256). Keeping DrainOrFill's fill check well above that
// bound means a decode call, once started, always has enough buffered
// input to run to completion without needing to suspend mid-symbol.
const inputLookahead = 8

// Coder is a carry-propagating range coder generalized from a binary
// decision (rangecoding.Decoder/Encoder) to a 16-ary cumulative-frequency
// decision, and generalized again from an internally-owned buffer to
// caller-supplied buffers plus a small internal bridge so it can suspend
// between calls instead of assuming the whole packet is resident at once.
//
// A Coder is not safe for concurrent use; it belongs to exactly one
// literal coding session.
type Coder struct {
	mode        Mode
	initialized bool

	rng uint32 // shared working range, either direction

	// encode-only state
	low        uint64
	cacheByte  byte
	cacheSize  int64
	pendingOut []byte

	// decode-only state: code is the coder's view of the bitstream
	// position; inBuf/inPos is the small internal bridge buffer that
	// DrainOrFill tops up from the caller's input slice.
	code  uint32
	inBuf []byte
	inPos int
}

// NewEncoder returns a Coder ready to encode symbols.
func NewEncoder() *Coder {
	return &Coder{mode: ModeEncode, rng: 0xFFFFFFFF, cacheByte: 0, cacheSize: 1}
}

// NewDecoder returns a Coder ready to decode symbols. It lazily reads its
// five-byte initialization sequence on the first GetOrPutNibble call, once
// enough input has arrived.
func NewDecoder() *Coder {
	return &Coder{mode: ModeDecode}
}

// DrainOrFill is the single suspension point a caller must reach Success
// from before doing any further coding work: on an encoder it copies
// already-produced bytes into out, returning NeedsMoreOutput if some are
// left over; on a decoder it pulls whatever the caller currently has in in
// into the coder's internal bridge buffer, returning NeedsMoreInput until
// enough has accumulated for the next GetOrPutNibble call to run to
// completion.
func (c *Coder) DrainOrFill(in []byte, inOffset *int, out []byte, outOffset *int) Result {
	if c.mode == ModeEncode {
		return c.drain(out, outOffset)
	}
	return c.fill(in, inOffset)
}

func (c *Coder) drain(out []byte, outOffset *int) Result {
	if len(c.pendingOut) == 0 {
		return Success
	}
	n := copy(out[*outOffset:], c.pendingOut)
	*outOffset += n
	c.pendingOut = c.pendingOut[n:]
	if len(c.pendingOut) > 0 {
		return NeedsMoreOutput
	}
	return Success
}

func (c *Coder) fill(in []byte, inOffset *int) Result {
	if *inOffset < len(in) {
		c.inBuf = append(c.inBuf, in[*inOffset:]...)
		*inOffset = len(in)
	}
	c.compact()
	if len(c.inBuf)-c.inPos < inputLookahead {
		return NeedsMoreInput
	}
	return Success
}

// compact implements the same front-compaction rule the streaming adapter
// uses (spec.md S4.7): once the already-consumed prefix grows large next
// to what remains, slide the remainder to the front instead of letting
// inBuf grow without bound.
func (c *Coder) compact() {
	if c.inPos == 0 {
		return
	}
	if c.inPos == len(c.inBuf) {
		c.inBuf = c.inBuf[:0]
		c.inPos = 0
		return
	}
	if c.inPos > len(c.inBuf)-c.inPos {
		remainder := len(c.inBuf) - c.inPos
		copy(c.inBuf, c.inBuf[c.inPos:])
		c.inBuf = c.inBuf[:remainder]
		c.inPos = 0
	}
}

func (c *Coder) readByte() byte {
	b := c.inBuf[c.inPos]
	c.inPos++
	return b
}

// GetOrPutNibble codes exactly one 4-bit symbol against model: on an
// encoder it reads *sym and emits it; on a decoder it resolves the next
// symbol from the bitstream and writes it into *sym. Both directions
// return the (start, freq) range the symbol resolved to, which the caller
// feeds back into model's own adaptation so both sides of a session stay
// in lockstep.
//
// The caller must have just seen DrainOrFill return Success; otherwise a
// decoder may not have enough buffered input to finish this call.
func (c *Coder) GetOrPutNibble(sym *uint8, model *cdf.CDF16) cdf.Range {
	if c.mode == ModeEncode {
		return c.encodeNibble(*sym, model)
	}
	if !c.initialized {
		c.initDecode()
	}
	s, r := c.decodeNibble(model)
	*sym = s
	return r
}

func (c *Coder) encodeNibble(sym uint8, model *cdf.CDF16) cdf.Range {
	r := model.SymToStartAndFreq(sym)
	c.rng /= cdf.Total
	c.low += uint64(r.Start) * uint64(c.rng)
	c.rng *= uint32(r.Freq)
	for c.rng < topValue {
		c.shiftLow()
		c.rng <<= 8
	}
	return r
}

func (c *Coder) shiftLow() {
	if uint32(c.low>>32) != 0 || c.low < 0xFF000000 {
		temp := c.cacheByte
		for {
			c.pendingOut = append(c.pendingOut, byte(uint64(temp)+(c.low>>32)))
			temp = 0xFF
			c.cacheSize--
			if c.cacheSize == 0 {
				break
			}
		}
		c.cacheByte = byte(c.low >> 24)
	}
	c.cacheSize++
	c.low = (c.low << 8) & 0xFFFFFFFF
}

// Flush must be called exactly once, after the last symbol of an encode
// session, to push out low's remaining unflushed bytes plus enough
// trailing padding that a decoder's fixed inputLookahead never stalls
// waiting for bytes that were never going to arrive.
func (c *Coder) Flush() {
	for i := 0; i < 5; i++ {
		c.shiftLow()
	}
	for i := 0; i < inputLookahead; i++ {
		c.pendingOut = append(c.pendingOut, 0)
	}
}

func (c *Coder) initDecode() {
	c.rng = 0xFFFFFFFF
	c.code = 0
	c.readByte() // one byte of latency inherent in the cache mechanism; its value carries no range information and both sides discard it unconditionally
	for i := 0; i < 4; i++ {
		c.code = (c.code << 8) | uint32(c.readByte())
	}
	c.initialized = true
}

func (c *Coder) decodeNibble(model *cdf.CDF16) (uint8, cdf.Range) {
	c.rng /= cdf.Total
	cum := c.code / c.rng
	if cum > cdf.Total-1 {
		cum = cdf.Total - 1
	}
	sym, r := model.FindSymbol(uint16(cum))
	c.code -= uint32(r.Start) * c.rng
	c.rng *= uint32(r.Freq)
	for c.rng < topValue {
		c.code = (c.code << 8) | uint32(c.readByte())
		c.rng <<= 8
	}
	c.compact()
	return sym, r
}
