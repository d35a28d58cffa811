package models

import "time"

// MMetricsSummary represents the windowed plant summary.
type MMetricsSummary struct {
	Timestamp      time.Time `json:"timestamp"`
	PowerOutputMW  float64   `json:"powerOutputMW"`
	AvgWindSpeedMS float64   `json:"averageWindSpeedMS"`
	EfficiencyPct  float64   `json:"efficiencyPct"`
	ActiveTurbines int       `json:"activeTurbines"`
	TotalTurbines  int       `json:"totalTurbines"`
}

// MMetricValue is a single metric derived from the summary.
type MMetricValue struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}
