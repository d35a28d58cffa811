package interfaces

import (
	"context"

	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"
)

// -----------------------------------------------------------------------------
// IPlantSource supplies the two source tables. Implementations must be safe to
// call repeatedly and concurrently, and must hand out tables the caller may
// not share with other callers.
// -----------------------------------------------------------------------------

type IPlantSource interface {
	GetMeasurementTable(ctx context.Context) (*timeseries.MeasurementTable, error)

	// -----------------------------------------------------------------------------

	GetAssetTable(ctx context.Context) (*timeseries.AssetTable, error)

	// -----------------------------------------------------------------------------

	// Status reports whether data has been loaded, without triggering a load
	Status() models.MPlantStatus
}

// -----------------------------------------------------------------------------
// IPlantLoader performs the expensive one-time load behind the cache.
// -----------------------------------------------------------------------------

type IPlantLoader interface {
	Load(ctx context.Context) (*PlantTables, error)
}

// PlantTables is the result of one load
type PlantTables struct {
	Measurements *timeseries.MeasurementTable
	Assets       *timeseries.AssetTable
	Source       string
}
