package interfaces

import (
	"context"

	"windfarm-observer/src/timeseries"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for the tabular store that stages plant data.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize opens the connection and creates missing tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// HasPlantData reports whether both tables have been staged.
	HasPlantData(ctx context.Context) (bool, error)

	// -----------------------------------------------------------------------------

	// SavePlantData replaces the staged tables in one transaction.
	SavePlantData(ctx context.Context, measurements *timeseries.MeasurementTable, assets *timeseries.AssetTable) error

	// -----------------------------------------------------------------------------

	// LoadMeasurementFrame reads the measurement table back, indexed by (time, asset_id).
	LoadMeasurementFrame(ctx context.Context) (*timeseries.Frame, error)

	// -----------------------------------------------------------------------------

	// LoadAssetFrame reads the asset table back.
	LoadAssetFrame(ctx context.Context) (*timeseries.Frame, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
