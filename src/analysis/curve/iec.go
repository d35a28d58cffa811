package curve

import (
	"math"
	"sort"

	"windfarm-observer/src/models"
)

// IECBinFitter estimates a power curve IEC 61400-12 style: average power in
// fixed-width wind speed bins, then interpolate linearly between bin centres.
//
// Bin edges are linspace(Start, End, ceil((End-Start)/BinWidth)+1) and every
// bin is half-open, [e_i, e_i+1); samples at or above End are not binned.
// Empty bins are bridged by the
// interpolation, values beyond the outermost populated centres are held
// constant, and the curve is 0 outside [Start, End].
type IECBinFitter struct {
	BinWidth float64
	Start    float64
	End      float64
}

// -----------------------------------------------------------------------------

func NewIECBinFitter(binWidth, start, end float64) *IECBinFitter {
	if binWidth <= 0 {
		binWidth = 0.5
	}
	if end <= start {
		end = start + 30
	}
	return &IECBinFitter{BinWidth: binWidth, Start: start, End: end}
}

// -----------------------------------------------------------------------------

func (f *IECBinFitter) Name() string {
	return "iec-binned"
}

// -----------------------------------------------------------------------------

// Edges returns the bin boundaries; there is one bin fewer than edges
func (f *IECBinFitter) Edges() []float64 {
	n := int(math.Ceil((f.End-f.Start)/f.BinWidth)) + 1
	edges := make([]float64, n)
	step := (f.End - f.Start) / float64(n-1)
	for i := range edges {
		edges[i] = f.Start + float64(i)*step
	}
	edges[n-1] = f.End
	return edges
}

// -----------------------------------------------------------------------------

// binIndex locates the bin holding ws, or -1 outside [first, last edge)
func binIndex(edges []float64, ws float64) int {
	if ws < edges[0] || ws >= edges[len(edges)-1] {
		return -1
	}
	i := sort.SearchFloat64s(edges, ws)
	if i < len(edges) && edges[i] == ws {
		return i
	}
	return i - 1
}

// -----------------------------------------------------------------------------

// BinMeans returns the mean power per bin (NaN for empty bins)
func (f *IECBinFitter) BinMeans(samples []models.MCurvePoint) []float64 {
	edges := f.Edges()
	sums := make([]float64, len(edges)-1)
	counts := make([]int, len(edges)-1)

	for _, s := range samples {
		if math.IsNaN(s.WindSpeedMS) || math.IsNaN(s.PowerKW) {
			continue
		}
		idx := binIndex(edges, s.WindSpeedMS)
		if idx < 0 {
			continue
		}
		sums[idx] += s.PowerKW
		counts[idx]++
	}

	means := make([]float64, len(sums))
	for i := range means {
		if counts[i] == 0 {
			means[i] = math.NaN()
			continue
		}
		means[i] = sums[i] / float64(counts[i])
	}
	return means
}

// -----------------------------------------------------------------------------

// Fit implements interfaces.ICurveFitter
func (f *IECBinFitter) Fit(samples []models.MCurvePoint) (func(float64) float64, bool) {
	edges := f.Edges()
	means := f.BinMeans(samples)

	var centres, values []float64
	for i, m := range means {
		if math.IsNaN(m) {
			continue
		}
		centres = append(centres, edges[i]+f.BinWidth/2)
		values = append(values, m)
	}
	if len(centres) == 0 {
		return nil, false
	}

	start, end := f.Start, f.End
	return func(x float64) float64 {
		if math.IsNaN(x) || x < start || x > end {
			return 0
		}
		return interpolate(centres, values, x)
	}, true
}

// -----------------------------------------------------------------------------

// interpolate is piecewise linear over ascending xs with constant hold at both ends
func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	j := sort.SearchFloat64s(xs, x)
	if xs[j] == x {
		return ys[j]
	}
	x0, x1 := xs[j-1], xs[j]
	y0, y1 := ys[j-1], ys[j]
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
