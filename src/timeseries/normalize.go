package timeseries

import (
	"math"

	"windfarm-observer/src/models"
)

// Canonical field names used by the tabular store
const (
	FieldTime        = "time"
	FieldAssetID     = "asset_id"
	FieldWindSpeed   = "wind_speed"
	FieldPower       = "power"
	FieldTemperature = "temperature"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldRatedPower  = "rated_power"
)

// CanonicalScadaSchema describes frames read back from the store
var CanonicalScadaSchema = models.MScadaSchema{
	Time:        FieldTime,
	AssetID:     FieldAssetID,
	WindSpeed:   FieldWindSpeed,
	Power:       FieldPower,
	Temperature: FieldTemperature,
}

// CanonicalAssetSchema describes asset frames read back from the store
var CanonicalAssetSchema = models.MAssetSchema{
	AssetID:         FieldAssetID,
	Latitude:        FieldLatitude,
	Longitude:       FieldLongitude,
	RatedPower:      FieldRatedPower,
	RatedPowerScale: 1,
}

// NormalizeStats reports what normalization had to discard
type NormalizeStats struct {
	InputRows       int
	DroppedNoTime   int
	TimeFromIndex   bool
	AssetIDResolved bool
}

// -----------------------------------------------------------------------------

// NormalizeMeasurements materializes explicit time and asset-id fields for every
// row, whether the source carried them as columns or as index levels.
func NormalizeMeasurements(frame *Frame, schema models.MScadaSchema) (*MeasurementTable, NormalizeStats) {
	stats := NormalizeStats{}
	table := &MeasurementTable{}
	if frame == nil {
		return table, stats
	}
	stats.InputRows = frame.NumRows()

	times, ok := frame.axis(schema.Time)
	if ok {
		_, isColumn := frame.Column(schema.Time)
		stats.TimeFromIndex = !isColumn
	} else if times, ok = frame.soleIndex(); ok {
		stats.TimeFromIndex = true
	} else {
		// No time axis at all: nothing can satisfy the row invariant
		stats.DroppedNoTime = frame.NumRows()
		return table, stats
	}

	ids, hasIDs := frame.axis(schema.AssetID)
	stats.AssetIDResolved = hasIDs
	table.hasAssetIDs = hasIDs

	wind, hasWind := frame.Column(schema.WindSpeed)
	power, hasPower := frame.Column(schema.Power)
	temp, hasTemp := frame.Column(schema.Temperature)
	table.columns = ColumnSet{WindSpeed: hasWind, Power: hasPower, Temperature: hasTemp}

	table.records = make([]models.MScadaRecord, 0, frame.NumRows())
	for i := 0; i < frame.NumRows(); i++ {
		ts, ok := ToTime(times[i], schema.TimeLayout)
		if !ok {
			stats.DroppedNoTime++
			continue
		}
		rec := models.MScadaRecord{
			Time:         ts,
			WindSpeedMS:  math.NaN(),
			PowerKW:      math.NaN(),
			TemperatureC: math.NaN(),
		}
		if hasIDs {
			rec.AssetID = ToID(ids[i])
		}
		if hasWind {
			rec.WindSpeedMS = ToNumeric(wind[i])
		}
		if hasPower {
			rec.PowerKW = ToNumeric(power[i])
		}
		if hasTemp {
			rec.TemperatureC = ToNumeric(temp[i])
		}
		table.records = append(table.records, rec)
	}

	return table, stats
}

// -----------------------------------------------------------------------------

// NormalizeAssets builds the static asset table. Rated power is scaled to MW.
func NormalizeAssets(frame *Frame, schema models.MAssetSchema) *AssetTable {
	table := &AssetTable{}
	if frame == nil {
		return table
	}

	ids, hasIDs := frame.axis(schema.AssetID)
	lat, hasLat := frame.Column(schema.Latitude)
	lon, hasLon := frame.Column(schema.Longitude)
	rated, hasRated := frame.Column(schema.RatedPower)
	table.columns = AssetColumnSet{
		AssetID:    hasIDs,
		Latitude:   hasLat,
		Longitude:  hasLon,
		RatedPower: hasRated,
	}

	scale := schema.RatedPowerScale
	if scale == 0 {
		scale = 1
	}

	table.records = make([]models.MAsset, 0, frame.NumRows())
	for i := 0; i < frame.NumRows(); i++ {
		rec := models.MAsset{
			Latitude:     math.NaN(),
			Longitude:    math.NaN(),
			RatedPowerMW: math.NaN(),
		}
		if hasIDs {
			rec.AssetID = ToID(ids[i])
		}
		if hasLat {
			rec.Latitude = ToNumeric(lat[i])
		}
		if hasLon {
			rec.Longitude = ToNumeric(lon[i])
		}
		if hasRated {
			rec.RatedPowerMW = ToNumeric(rated[i]) * scale
		}
		table.records = append(table.records, rec)
	}

	return table
}
