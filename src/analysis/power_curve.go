package analysis

import (
	"math"

	"windfarm-observer/src/analysis/core"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"
)

// BuildPowerCurve returns a deterministic display scatter and the fitted curve
// evaluated on a dense wind speed grid. No valid samples yields empty slices.
func (a *AnalysisFacade) BuildPowerCurve(
	table *timeseries.MeasurementTable,
	rangeKey string,
	maxScatterPoints int,
	curveStepMS float64,
) (models.MPowerCurveData, error) {

	result := models.MPowerCurveData{
		Scatter: []models.MCurvePoint{},
		Curve:   []models.MCurvePoint{},
	}

	duration, err := ParseRange(rangeKey)
	if err != nil {
		return result, err
	}
	if maxScatterPoints <= 0 {
		maxScatterPoints = a.Settings.MaxScatterPoints
	}
	if curveStepMS <= 0 {
		curveStepMS = a.Settings.CurveStepMS
	}

	end, ok := table.MaxTime()
	if !ok {
		return result, nil
	}
	samples := a.validPairs(table.Window(end, duration))
	if len(samples) == 0 {
		return result, nil
	}

	// Scatter: evenly spaced subset of the ordered samples
	if len(samples) > maxScatterPoints {
		for _, idx := range core.EvenlySpacedIndices(len(samples), maxScatterPoints) {
			result.Scatter = append(result.Scatter, samples[idx])
		}
	} else {
		result.Scatter = append(result.Scatter, samples...)
	}

	// Curve: fit on the full population
	fn, ok := a.Fitter.Fit(samples)
	if !ok {
		a.Logger.Warning("Curve fitter %s produced no curve from %d samples", a.Fitter.Name(), len(samples))
		return result, nil
	}
	start, stop := a.Settings.CurveStartMS, a.Settings.CurveEndMS
	points := int(math.Round((stop-start)/curveStepMS)) + 1
	result.Curve = make([]models.MCurvePoint, 0, points)
	for i := 0; i < points; i++ {
		ws := start + float64(i)*curveStepMS
		result.Curve = append(result.Curve, models.MCurvePoint{WindSpeedMS: ws, PowerKW: fn(ws)})
	}

	return result, nil
}

// -----------------------------------------------------------------------------

// validPairs keeps rows with both readings inside the sanity range, in table order
func (a *AnalysisFacade) validPairs(window *timeseries.MeasurementTable) []models.MCurvePoint {
	cols := window.Columns()
	if !cols.WindSpeed || !cols.Power {
		return nil
	}
	lo, hi := a.Settings.MinWindSpeedMS, a.Settings.MaxWindSpeedMS
	out := make([]models.MCurvePoint, 0, window.Len())
	for i := 0; i < window.Len(); i++ {
		r := window.Record(i)
		if math.IsNaN(r.WindSpeedMS) || math.IsNaN(r.PowerKW) {
			continue
		}
		if r.WindSpeedMS < lo || r.WindSpeedMS > hi || r.PowerKW < 0 {
			continue
		}
		out = append(out, models.MCurvePoint{WindSpeedMS: r.WindSpeedMS, PowerKW: r.PowerKW})
	}
	return out
}
