package analysis

import (
	"math"

	"windfarm-observer/src/analysis/core"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"
)

// Summarize derives the plant summary over the trailing window ending at the
// table's latest timestamp. Power is instantaneous (latest snapshot), wind
// speed is averaged over the whole window.
func (a *AnalysisFacade) Summarize(
	table *timeseries.MeasurementTable,
	assets *timeseries.AssetTable,
	rangeKey string,
) (models.MMetricsSummary, error) {

	duration, err := ParseRange(rangeKey)
	if err != nil {
		return models.MMetricsSummary{}, err
	}

	total := totalTurbines(table, assets)
	end, ok := table.MaxTime()
	if !ok {
		return models.MMetricsSummary{TotalTurbines: total}, nil
	}

	window := table.Window(end, duration)
	latest, _ := window.LatestSnapshot()
	cols := table.Columns()

	// 1. Instantaneous power (MW)
	powerMW := 0.0
	active := total
	if cols.Power {
		powers := powerSeries(latest)
		mean, n := core.NanMean(powers)
		powerMW = core.OrZero(mean) / 1000.0
		active = n
	}

	// 2. Window-average wind speed
	windMS := 0.0
	if cols.WindSpeed {
		mean, _ := core.NanMean(windSeries(window))
		windMS = core.OrZero(mean)
	}

	// 3. Efficiency against nameplate
	rated := a.ratedPowerMW(assets)
	efficiency := 0.0
	denom := float64(max(active, 1)) * rated
	if denom > 0 {
		efficiency = core.Clamp(powerMW/denom*100.0, 0, 100)
	}

	return models.MMetricsSummary{
		Timestamp:      end,
		PowerOutputMW:  core.Round(powerMW, 3),
		AvgWindSpeedMS: core.Round(windMS, 3),
		EfficiencyPct:  core.Round(efficiency, 2),
		ActiveTurbines: active,
		TotalTurbines:  total,
	}, nil
}

// -----------------------------------------------------------------------------

// ratedPowerMW is the median nameplate rating, or the configured default
func (a *AnalysisFacade) ratedPowerMW(assets *timeseries.AssetTable) float64 {
	if rated, ok := assets.RatedPowers(); ok {
		if m := core.NanMedian(rated); !math.IsNaN(m) {
			return m
		}
	}
	return a.Settings.DefaultRatedPowerMW
}

// -----------------------------------------------------------------------------

// totalTurbines counts the asset table, falling back to distinct ids in the measurements
func totalTurbines(table *timeseries.MeasurementTable, assets *timeseries.AssetTable) int {
	if ids := assets.TurbineIDs(); len(ids) > 0 {
		return len(ids)
	}
	return len(table.GroupByAsset())
}

// -----------------------------------------------------------------------------

func powerSeries(t *timeseries.MeasurementTable) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = t.Record(i).PowerKW
	}
	return out
}

func windSeries(t *timeseries.MeasurementTable) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = t.Record(i).WindSpeedMS
	}
	return out
}
