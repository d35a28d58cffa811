package analysis

import (
	"math"

	"windfarm-observer/src/analysis/core"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"
)

// GeospatialSnapshot joins each asset position with its mean power at the
// latest instant. Status here is online/maintenance only and may disagree with
// ClassifyTurbines, which also has a temperature tier.
func (a *AnalysisFacade) GeospatialSnapshot(
	assets *timeseries.AssetTable,
	table *timeseries.MeasurementTable,
) []models.MTurbineGeo {

	points := []models.MTurbineGeo{}
	cols := assets.Columns()
	if !cols.AssetID || !cols.Latitude || !cols.Longitude {
		return points
	}

	powerByID := make(map[string]float64)
	latest, _ := table.LatestSnapshot()
	if latest.Columns().Power {
		for _, g := range latest.GroupByAsset() {
			powers := make([]float64, len(g.Rows))
			for i, row := range g.Rows {
				powers[i] = latest.Record(row).PowerKW
			}
			mean, _ := core.NanMean(powers)
			powerByID[g.AssetID] = mean
		}
	}

	for _, asset := range assets.Records() {
		if math.IsNaN(asset.Latitude) || math.IsNaN(asset.Longitude) {
			a.Logger.Debug("Skipping %s: no coordinates", asset.AssetID)
			continue
		}
		power := core.OrZero(powerByID[asset.AssetID])
		status := models.StatusMaintenance
		if power > 0 {
			status = models.StatusOnline
		}
		points = append(points, models.MTurbineGeo{
			TurbineID:      asset.AssetID,
			Lat:            asset.Latitude,
			Lon:            asset.Longitude,
			Status:         status,
			CurrentPowerKW: power,
		})
	}
	return points
}
