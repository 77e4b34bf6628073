package arith

import (
	"math/rand"
	"testing"

	"github.com/brotligo/litcoder/cdf"
)

// driveEncode runs a full encode session, returning the encoded bytes. It
// is used both as a one-shot baseline and, via chunkSize, to exercise
// resumption across tiny output buffers.
func driveEncode(t *testing.T, syms []uint8, chunkSize int) []byte {
	t.Helper()
	c := NewEncoder()
	model := cdf.NewUniform16()

	var out []byte
	scratch := make([]byte, chunkSize)
	flushSym := func(sym uint8) {
		in := []byte{}
		inOff := 0
		for {
			outOff := 0
			res := c.DrainOrFill(in, &inOff, scratch, &outOff)
			out = append(out, scratch[:outOff]...)
			if res == Success {
				return
			}
			if res != NeedsMoreOutput {
				t.Fatalf("unexpected encode DrainOrFill result: %v", res)
			}
		}
	}
	for _, sym := range syms {
		flushSym(sym)
		s := sym
		c.GetOrPutNibble(&s, model)
		model.Blend(sym, cdf.Med)
	}
	c.Flush()
	flushSym(0)
	return out
}

func driveDecode(t *testing.T, data []byte, count int, chunkSize int) []uint8 {
	t.Helper()
	c := NewDecoder()
	model := cdf.NewUniform16()

	dataOff := 0
	got := make([]uint8, 0, count)
	ensureReady := func() {
		for {
			inOff := 0
			hi := dataOff + chunkSize
			if hi > len(data) {
				hi = len(data)
			}
			window := data[dataOff:hi]
			outOff := 0
			res := c.DrainOrFill(window, &inOff, nil, &outOff)
			dataOff += inOff
			if res == Success {
				return
			}
			if res != NeedsMoreInput {
				t.Fatalf("unexpected decode DrainOrFill result: %v", res)
			}
			if dataOff >= len(data) {
				t.Fatalf("ran out of input before decode finished")
			}
		}
	}
	for i := 0; i < count; i++ {
		ensureReady()
		var sym uint8
		c.GetOrPutNibble(&sym, model)
		model.Blend(sym, cdf.Med)
		got = append(got, sym)
	}
	return got
}

func TestRoundTripOneShot(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	syms := make([]uint8, 500)
	for i := range syms {
		syms[i] = uint8(rng.Intn(16))
	}
	encoded := driveEncode(t, syms, 4096)
	decoded := driveDecode(t, encoded, len(syms), 4096)
	for i := range syms {
		if syms[i] != decoded[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, decoded[i], syms[i])
		}
	}
}

func TestRoundTripSkewedDistribution(t *testing.T) {
	syms := make([]uint8, 0, 2000)
	for i := 0; i < 2000; i++ {
		switch {
		case i%10 == 0:
			syms = append(syms, uint8(i%16))
		default:
			syms = append(syms, 3)
		}
	}
	encoded := driveEncode(t, syms, 4096)
	decoded := driveDecode(t, encoded, len(syms), 4096)
	for i := range syms {
		if syms[i] != decoded[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, decoded[i], syms[i])
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	syms := make([]uint8, 300)
	for i := range syms {
		syms[i] = uint8(rng.Intn(16))
	}
	a := driveEncode(t, syms, 4096)
	b := driveEncode(t, syms, 4096)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("byte %d differs: %x vs %x", i, a[i], b[i])
		}
	}
}

func TestResumableAcrossTinyOutputBuffers(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	syms := make([]uint8, 200)
	for i := range syms {
		syms[i] = uint8(rng.Intn(16))
	}
	baseline := driveEncode(t, syms, 4096)
	for _, chunk := range []int{1, 2, 3, 7} {
		got := driveEncode(t, syms, chunk)
		if len(got) != len(baseline) {
			t.Fatalf("chunk %d: length %d, want %d", chunk, len(got), len(baseline))
		}
		for i := range got {
			if got[i] != baseline[i] {
				t.Fatalf("chunk %d: byte %d differs", chunk, i)
			}
		}
	}
}

func TestResumableAcrossTinyInputBuffers(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	syms := make([]uint8, 200)
	for i := range syms {
		syms[i] = uint8(rng.Intn(16))
	}
	encoded := driveEncode(t, syms, 4096)
	for _, chunk := range []int{1, 2, 3, 7} {
		decoded := driveDecode(t, encoded, len(syms), chunk)
		for i := range syms {
			if syms[i] != decoded[i] {
				t.Fatalf("chunk %d: mismatch at %d: got %d want %d", chunk, i, decoded[i], syms[i])
			}
		}
	}
}
