package cdf

import "testing"

func (c *CDF16) sum() uint32 {
	var s uint32
	for _, f := range c.freq {
		s += uint32(f)
	}
	return s
}

func (c *CDF16) monotonic() bool {
	var cum uint32
	for i := uint8(0); i < 16; i++ {
		r := c.SymToStartAndFreq(i)
		if uint32(r.Start) != cum {
			return false
		}
		cum += uint32(r.Freq)
	}
	return cum == Total
}

func TestNewUniform16(t *testing.T) {
	c := NewUniform16()
	if c.sum() != Total {
		t.Fatalf("sum = %d, want %d", c.sum(), Total)
	}
	for i := uint8(0); i < 16; i++ {
		if c.freq[i] != Total/16 {
			t.Errorf("freq[%d] = %d, want %d", i, c.freq[i], Total/16)
		}
	}
}

func TestBlendPreservesInvariants(t *testing.T) {
	c := NewUniform16()
	for i := 0; i < 10000; i++ {
		sym := uint8(i % 16)
		c.Blend(sym, Speed(i%5))
		if c.sum() != Total {
			t.Fatalf("iteration %d: sum = %d, want %d", i, c.sum(), Total)
		}
		if !c.monotonic() {
			t.Fatalf("iteration %d: cdf not monotonic", i)
		}
		for j := uint8(0); j < 16; j++ {
			if c.freq[j] == 0 {
				t.Fatalf("iteration %d: freq[%d] == 0", i, j)
			}
		}
	}
}

func TestBlendConverges(t *testing.T) {
	c := NewUniform16()
	for i := 0; i < 2000; i++ {
		c.Blend(3, Fast)
	}
	r := c.SymToStartAndFreq(3)
	if r.Freq < Total*9/10 {
		t.Fatalf("freq[3] = %d after many blends toward 3, want close to %d", r.Freq, Total)
	}
}

func TestFindSymbolRoundTripsWithStartAndFreq(t *testing.T) {
	c := NewUniform16()
	for i := 0; i < 50; i++ {
		c.Blend(uint8(i%16), Med)
	}
	for sym := uint8(0); sym < 16; sym++ {
		r := c.SymToStartAndFreq(sym)
		if r.Freq == 0 {
			continue
		}
		gotSym, gotR := c.FindSymbol(r.Start)
		if gotSym != sym || gotR != r {
			t.Errorf("FindSymbol(%d) = (%d, %+v), want (%d, %+v)", r.Start, gotSym, gotR, sym, r)
		}
	}
}

func TestAverageStaysValidDistribution(t *testing.T) {
	a := NewUniform16()
	b := NewUniform16()
	for i := 0; i < 50; i++ {
		a.Blend(2, Fast)
		b.Blend(9, Mud)
	}
	for _, w := range []int32{0, 1 << 14, 1 << 15, (1 << 16) - 1, 1 << 16} {
		avg := a.Average(b, w)
		if avg.sum() != Total {
			t.Fatalf("weight %d: sum = %d, want %d", w, avg.sum(), Total)
		}
		if !avg.monotonic() {
			t.Fatalf("weight %d: not monotonic", w)
		}
	}
}

func TestAverageExtremeWeightsMatchInputs(t *testing.T) {
	a := NewUniform16()
	b := NewUniform16()
	for i := 0; i < 200; i++ {
		a.Blend(2, Fast)
		b.Blend(9, Fast)
	}
	allSelf := a.Average(b, 1<<16)
	for i := uint8(0); i < 16; i++ {
		if allSelf.freq[i] != a.freq[i] {
			t.Errorf("full self weight: freq[%d] = %d, want %d", i, allSelf.freq[i], a.freq[i])
		}
	}
	allOther := a.Average(b, 0)
	for i := uint8(0); i < 16; i++ {
		if allOther.freq[i] != b.freq[i] {
			t.Errorf("zero self weight: freq[%d] = %d, want %d", i, allOther.freq[i], b.freq[i])
		}
	}
}
