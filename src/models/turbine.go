package models

import "time"

// Turbine status values
const (
	StatusOnline      = "online"
	StatusWarning     = "warning"
	StatusMaintenance = "maintenance"
)

// MTurbineHealth is derived fresh on every request.
type MTurbineHealth struct {
	TurbineID    string    `json:"turbineId"`
	Status       string    `json:"status"`
	GenerationKW float64   `json:"generationKW"`
	TemperatureC *float64  `json:"temperatureC"`
	LastUpdate   time.Time `json:"lastUpdate"`
}

// MTurbineHealthPage is one page of the sorted health list plus the full count.
type MTurbineHealthPage struct {
	Rows  []MTurbineHealth `json:"rows"`
	Total int              `json:"total"`
}

// MTurbineGeo is an asset position joined with its latest power reading.
type MTurbineGeo struct {
	TurbineID      string  `json:"turbineId"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Status         string  `json:"status"`
	CurrentPowerKW float64 `json:"currentPowerKW"`
}
