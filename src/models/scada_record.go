package models

import "time"

// MScadaRecord is one normalized measurement row. Missing readings are NaN.
type MScadaRecord struct {
	AssetID      string
	Time         time.Time
	WindSpeedMS  float64
	PowerKW      float64
	TemperatureC float64
}
