package curve

import (
	"math"
	"testing"

	"windfarm-observer/src/models"
)

func TestEdgesMatchIECLayout(t *testing.T) {
	f := NewIECBinFitter(0.5, 0, 30)
	edges := f.Edges()
	if len(edges) != 61 {
		t.Fatalf("expected 61 edges, got %d", len(edges))
	}
	if edges[0] != 0 || edges[1] != 0.5 || edges[60] != 30 {
		t.Fatalf("unexpected edges %v ... %v", edges[:2], edges[60])
	}
	if means := f.BinMeans(nil); len(means) != 60 {
		t.Fatalf("expected 60 bins over [0,30), got %d", len(means))
	}
}

func TestBinMeansUseHalfOpenBins(t *testing.T) {
	f := NewIECBinFitter(0.5, 0, 30)
	means := f.BinMeans([]models.MCurvePoint{
		{WindSpeedMS: 0.5, PowerKW: 10}, // left edge of bin 1
		{WindSpeedMS: 0.99, PowerKW: 30},
		{WindSpeedMS: 0.49, PowerKW: 5},
		{WindSpeedMS: 29.9, PowerKW: 1800}, // last bin
		{WindSpeedMS: 30, PowerKW: 2000},   // upper edge is excluded
		{WindSpeedMS: 33, PowerKW: 2000},
		{WindSpeedMS: -1, PowerKW: 99},   // below the first edge
	})
	if means[0] != 5 {
		t.Fatalf("bin 0 mean = %v, want 5", means[0])
	}
	if means[1] != 20 {
		t.Fatalf("bin 1 mean = %v, want 20", means[1])
	}
	if means[59] != 1800 {
		t.Fatalf("last bin mean = %v, want 1800", means[59])
	}
	if !math.IsNaN(means[2]) {
		t.Fatalf("empty bin must be NaN")
	}
}

func TestFitInterpolatesAcrossEmptyBins(t *testing.T) {
	f := NewIECBinFitter(0.5, 0, 30)
	curve, ok := f.Fit([]models.MCurvePoint{
		{WindSpeedMS: 4.1, PowerKW: 100}, // bin centre 4.25
		{WindSpeedMS: 4.4, PowerKW: 100},
		{WindSpeedMS: 6.2, PowerKW: 500}, // bin centre 6.25
	})
	if !ok {
		t.Fatalf("expected a curve")
	}

	cases := []struct {
		ws   float64
		want float64
	}{
		{4.25, 100},
		{5.25, 300}, // halfway between populated centres
		{6.25, 500},
		{0, 100},   // held below the first populated centre
		{30, 500},  // held above the last populated centre
		{30.5, 0},  // outside the curve domain
		{-0.1, 0},
	}
	for _, c := range cases {
		if got := curve(c.ws); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("curve(%v) = %v, want %v", c.ws, got, c.want)
		}
	}
}

func TestFitIgnoresSamplesAboveDomain(t *testing.T) {
	f := NewIECBinFitter(0.5, 0, 30)
	inDomain := []models.MCurvePoint{{WindSpeedMS: 29.6, PowerKW: 2000}}
	base, ok := f.Fit(inDomain)
	if !ok {
		t.Fatalf("expected a curve")
	}
	withHigh, ok := f.Fit(append(inDomain, models.MCurvePoint{WindSpeedMS: 34, PowerKW: 0}))
	if !ok {
		t.Fatalf("expected a curve")
	}

	for _, ws := range []float64{29.5, 29.75, 29.9, 30} {
		if a, b := base(ws), withHigh(ws); a != b || b != 2000 {
			t.Fatalf("curve(%v) changed by a sample above 30 m/s: %v vs %v", ws, a, b)
		}
	}
	if _, ok := f.Fit([]models.MCurvePoint{{WindSpeedMS: 31, PowerKW: 500}}); ok {
		t.Fatalf("samples above the domain alone must not produce a curve")
	}
}

func TestFitWithoutSamples(t *testing.T) {
	f := NewIECBinFitter(0.5, 0, 30)
	if _, ok := f.Fit(nil); ok {
		t.Fatalf("no samples must not produce a curve")
	}
	if _, ok := f.Fit([]models.MCurvePoint{{WindSpeedMS: -5, PowerKW: 1}}); ok {
		t.Fatalf("samples outside every bin must not produce a curve")
	}
}

func TestFitIsMonotonicBetweenMonotonicBins(t *testing.T) {
	f := NewIECBinFitter(0.5, 0, 30)
	var samples []models.MCurvePoint
	for ws := 3.0; ws <= 12; ws += 0.1 {
		samples = append(samples, models.MCurvePoint{WindSpeedMS: ws, PowerKW: ws * ws * 10})
	}
	curve, ok := f.Fit(samples)
	if !ok {
		t.Fatalf("expected a curve")
	}
	prev := curve(0)
	for ws := 0.25; ws <= 30; ws += 0.25 {
		v := curve(ws)
		if v < prev-1e-9 {
			t.Fatalf("curve decreased at %v: %v < %v", ws, v, prev)
		}
		prev = v
	}
}
