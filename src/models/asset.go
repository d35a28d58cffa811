package models

// MAsset is one normalized asset-table row. Unparsable numbers are NaN.
type MAsset struct {
	AssetID      string
	Latitude     float64
	Longitude    float64
	RatedPowerMW float64
}
