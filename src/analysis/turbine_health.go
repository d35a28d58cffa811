package analysis

import (
	"math"
	"sort"

	"windfarm-observer/src/analysis/core"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"
)

// ClassifyTurbines derives a health record per asset at the table's latest
// instant. When the table has no id axis, fallbackIDs are used and each is
// evaluated over the whole snapshot.
func (a *AnalysisFacade) ClassifyTurbines(
	table *timeseries.MeasurementTable,
	fallbackIDs []string,
	limit, offset int,
) models.MTurbineHealthPage {

	latest, ts := table.LatestSnapshot()
	cols := table.Columns()

	type group struct {
		id   string
		rows []int
	}
	var groups []group
	if latest.HasAssetIDs() {
		for _, g := range latest.GroupByAsset() {
			groups = append(groups, group{id: g.AssetID, rows: g.Rows})
		}
	} else {
		all := make([]int, latest.Len())
		for i := range all {
			all[i] = i
		}
		for _, id := range fallbackIDs {
			groups = append(groups, group{id: id, rows: all})
		}
	}

	records := make([]models.MTurbineHealth, 0, len(groups))
	for _, g := range groups {
		powers := make([]float64, len(g.rows))
		temps := make([]float64, len(g.rows))
		for i, row := range g.rows {
			r := latest.Record(row)
			powers[i] = r.PowerKW
			temps[i] = r.TemperatureC
		}

		power := math.NaN()
		if cols.Power {
			power, _ = core.NanMean(powers)
		}
		var temp *float64
		if cols.Temperature {
			if v, n := core.NanMean(temps); n > 0 {
				temp = &v
			}
		}

		records = append(records, models.MTurbineHealth{
			TurbineID:    g.id,
			Status:       a.healthStatus(power, temp),
			GenerationKW: core.OrZero(power),
			TemperatureC: temp,
			LastUpdate:   ts,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TurbineID < records[j].TurbineID
	})

	return models.MTurbineHealthPage{
		Rows:  paginate(records, limit, offset),
		Total: len(records),
	}
}

// -----------------------------------------------------------------------------

// healthStatus applies the rules in order, first match wins
func (a *AnalysisFacade) healthStatus(powerKW float64, tempC *float64) string {
	switch {
	case math.IsNaN(powerKW) || powerKW <= 0:
		return models.StatusMaintenance
	case tempC != nil && *tempC >= a.Settings.WarningTemperatureC:
		return models.StatusWarning
	default:
		return models.StatusOnline
	}
}

// -----------------------------------------------------------------------------

func paginate(rows []models.MTurbineHealth, limit, offset int) []models.MTurbineHealth {
	limit = max(limit, 0)
	offset = max(offset, 0)
	if offset >= len(rows) {
		return []models.MTurbineHealth{}
	}
	end := offset + min(limit, len(rows)-offset)
	return rows[offset:end]
}
