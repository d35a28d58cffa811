package models

// MCurvePoint is an ordered (wind speed, power) pair.
type MCurvePoint struct {
	WindSpeedMS float64 `json:"windSpeed"`
	PowerKW     float64 `json:"powerKW"`
}

// MPowerCurveData holds the display scatter and the fitted curve samples.
type MPowerCurveData struct {
	Scatter []MCurvePoint `json:"scatter"`
	Curve   []MCurvePoint `json:"curve"`
}
