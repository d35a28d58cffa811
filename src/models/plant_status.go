package models

import "time"

// MPlantStatus describes the state of the plant data cache.
type MPlantStatus struct {
	Loaded          bool      `json:"loaded"`
	MeasurementRows int       `json:"measurement_rows"`
	Assets          int       `json:"assets"`
	LatestTimestamp time.Time `json:"latest_timestamp"`
	LoadedAt        time.Time `json:"loaded_at"`
	LoadSeconds     float64   `json:"load_seconds"`
	Source          string    `json:"source"` // "store" or "archive"
}
