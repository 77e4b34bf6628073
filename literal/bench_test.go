package literal

import (
	"math/rand"
	"testing"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"

	"github.com/brotligo/litcoder/arith"
)

// corpus returns a handful of payload shapes representative of what a
// literal run actually carries in practice: text, a repetitive binary
// pattern, and incompressible noise.
func corpus() map[string][]byte {
	text := []byte(`The quick brown fox jumps over the lazy dog. ` +
		`Pack my box with five dozen liquor jugs. ` +
		`How vexingly quick daft zebras jump!`)
	for len(text) < 4096 {
		text = append(text, text...)
	}
	text = text[:4096]

	repetitive := make([]byte, 4096)
	for i := range repetitive {
		repetitive[i] = byte(i % 7)
	}

	rng := rand.New(rand.NewSource(42))
	noise := make([]byte, 4096)
	rng.Read(noise)

	return map[string][]byte{"text": text, "repetitive": repetitive, "noise": noise}
}

// literalEncodedSize drives payload through one literal command, exactly
// as Compressor.Compress does, and returns the encoded length.
func literalEncodedSize(payload []byte) int {
	coder := arith.NewEncoder()
	bk := NewBlockKeeper(1)
	stride, cm := newSessionPriors()
	st := NewState()
	st.Cmd.Data = append([]byte(nil), payload...)

	var out []byte
	scratch := make([]byte, 4096)
	for {
		inOff, outOff := 0, 0
		res := st.EncodeOrDecode(arith.ModeEncode, coder, bk, stride, cm, nil, &inOff, scratch, &outOff)
		out = append(out, scratch[:outOff]...)
		if res == arith.Success {
			break
		}
	}
	coder.Flush()
	for {
		outOff := 0
		res := coder.DrainOrFill(nil, new(int), scratch, &outOff)
		out = append(out, scratch[:outOff]...)
		if res == arith.Success {
			break
		}
	}
	return len(out)
}

// BenchmarkLiteralCoderVsReference reports the literal coder's output
// size against s2 and zstd over the same payloads (spec.md S8's
// golden-vector comparison). It is a size comparison, not a speed
// benchmark; the b.N loop exists only so `go test -bench` can report a
// number, and ReportMetric carries the size ratio that actually matters.
func BenchmarkLiteralCoderVsReference(b *testing.B) {
	zw, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		b.Fatalf("zstd.NewWriter: %v", err)
	}
	defer zw.Close()

	for name, payload := range corpus() {
		payload := payload
		b.Run(name, func(b *testing.B) {
			var litSize, s2Size, zstdSize int
			for i := 0; i < b.N; i++ {
				litSize = literalEncodedSize(payload)
				s2Size = len(s2.Encode(nil, payload))
				zstdSize = len(zw.EncodeAll(payload, nil))
			}
			b.ReportMetric(float64(litSize)/float64(len(payload)), "literal-ratio")
			b.ReportMetric(float64(s2Size)/float64(len(payload)), "s2-ratio")
			b.ReportMetric(float64(zstdSize)/float64(len(payload)), "zstd-ratio")
		})
	}
}
