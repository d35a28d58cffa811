package core

import (
	"math"
	"testing"
)

func TestNanMeanSkipsMissing(t *testing.T) {
	mean, n := NanMean([]float64{1, math.NaN(), 3})
	if mean != 2 || n != 2 {
		t.Fatalf("got mean=%v n=%d, want 2 and 2", mean, n)
	}
	if m, n := NanMean([]float64{math.NaN()}); !math.IsNaN(m) || n != 0 {
		t.Fatalf("all-NaN input must give NaN, got %v", m)
	}
	if m, _ := NanMean(nil); !math.IsNaN(m) {
		t.Fatalf("empty input must give NaN")
	}
}

func TestNanMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, math.NaN(), 2, 3}, 2.5},
		{[]float64{2.05}, 2.05},
	}
	for _, c := range cases {
		if got := NanMedian(c.in); got != c.want {
			t.Errorf("NanMedian(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	if !math.IsNaN(NanMedian([]float64{math.NaN()})) {
		t.Fatalf("all-NaN median must be NaN")
	}
}

func TestRoundAndClamp(t *testing.T) {
	if got := Round(1.23456, 3); got != 1.235 {
		t.Fatalf("Round = %v", got)
	}
	if got := Round(-2.5, 0); got != -3 {
		t.Fatalf("Round half away from zero = %v", got)
	}
	if got := Clamp(120, 0, 100); got != 100 {
		t.Fatalf("Clamp high = %v", got)
	}
	if got := Clamp(-1, 0, 100); got != 0 {
		t.Fatalf("Clamp low = %v", got)
	}
	if OrZero(math.NaN()) != 0 || OrZero(1.5) != 1.5 {
		t.Fatalf("OrZero wrong")
	}
}

func TestEvenlySpacedIndices(t *testing.T) {
	got := EvenlySpacedIndices(10, 4)
	want := []int{0, 3, 6, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EvenlySpacedIndices(10,4) = %v, want %v", got, want)
		}
	}

	// numpy: linspace(0, 6, 4) = [0, 2, 4, 6]; linspace(0, 7, 3) = [0, 3.5, 7] -> [0, 3, 7]
	got = EvenlySpacedIndices(8, 3)
	if got[0] != 0 || got[1] != 3 || got[2] != 7 {
		t.Fatalf("truncation mismatch: %v", got)
	}

	if got := EvenlySpacedIndices(5, 1); len(got) != 1 || got[0] != 0 {
		t.Fatalf("single index must be 0, got %v", got)
	}
	if got := EvenlySpacedIndices(0, 3); len(got) != 0 {
		t.Fatalf("empty input must give no indices, got %v", got)
	}

	large := EvenlySpacedIndices(100000, 2500)
	if len(large) != 2500 || large[len(large)-1] != 99999 {
		t.Fatalf("large downsample wrong: len=%d last=%d", len(large), large[len(large)-1])
	}
	for i := 1; i < len(large); i++ {
		if large[i] <= large[i-1] {
			t.Fatalf("indices must be strictly increasing at %d", i)
		}
	}
}
