package numeric

import "testing"

func TestFastDivide30By16ExactForSample(t *testing.T) {
	denoms := []uint16{1, 2, 3, 7, 17, 255, 256, 1000, 32768, 65535}
	nums := []int32{0, 1, 2, 3, 100, 1 << 10, 1 << 20, (1 << 30) - 1}
	for _, d := range denoms {
		div := ComputeDivisor(d)
		for _, n := range nums {
			got := FastDivide30By16(n, div)
			want := n / int32(d)
			if got != want {
				t.Errorf("FastDivide30By16(%d, d=%d) = %d, want %d", n, d, got, want)
			}
		}
	}
}

func TestLookupDivisorMatchesCompute(t *testing.T) {
	for _, d := range []uint16{1, 9, 250, 4095, 65535} {
		if LookupDivisor(d) != ComputeDivisor(d) {
			t.Errorf("LookupDivisor(%d) != ComputeDivisor(%d)", d, d)
		}
	}
}

func TestFastDivide16By8ExactForSample(t *testing.T) {
	nums := []uint16{0, 1, 2, 100, 1000, 32768, 65535}
	for d := 1; d <= 255; d++ {
		div := ComputeDivisor8(uint8(d))
		for _, n := range nums {
			got := FastDivide16By8(n, div)
			want := n / uint16(d)
			if got != want {
				t.Errorf("FastDivide16By8(%d, d=%d) = %d, want %d", n, d, got, want)
			}
		}
	}
}
