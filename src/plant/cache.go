package plant

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"windfarm-observer/src/helpers"
	"windfarm-observer/src/interfaces"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"
)

var (
	loadAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "windfarm_plant_load_total",
		Help: "Plant data load attempts by outcome",
	}, []string{"outcome"})

	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "windfarm_plant_load_duration_seconds",
		Help:    "Duration of successful plant data loads",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
	})

	measurementRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "windfarm_plant_measurement_rows",
		Help: "Rows in the cached measurement table",
	})
)

// plantSnapshot is published once and never mutated afterwards
type plantSnapshot struct {
	measurements *timeseries.MeasurementTable
	assets       *timeseries.AssetTable
	status       models.MPlantStatus
}

// PlantDataCache loads the plant tables once per process and hands out
// private copies. Construct one at the composition root and share it.
type PlantDataCache struct {
	Loader interfaces.IPlantLoader
	Logger *logger.Logger

	mu   sync.Mutex
	data atomic.Pointer[plantSnapshot]
}

// -----------------------------------------------------------------------------

func NewPlantDataCache(loader interfaces.IPlantLoader, log *logger.Logger) *PlantDataCache {
	return &PlantDataCache{Loader: loader, Logger: log}
}

// -----------------------------------------------------------------------------

// snapshot returns the published tables, loading them on first use.
// Only the first-load path takes the lock; failures are not remembered.
func (c *PlantDataCache) snapshot(ctx context.Context) (*plantSnapshot, error) {
	if s := c.data.Load(); s != nil {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.data.Load(); s != nil {
		return s, nil
	}

	start := time.Now()
	c.Logger.Info("Loading plant data...")
	tables, err := c.Loader.Load(ctx)
	if err == nil && (tables == nil || tables.Measurements == nil) {
		err = helpers.NewValidation("loader returned no measurement table")
	}
	if err != nil {
		loadAttempts.WithLabelValues("failure").Inc()
		c.Logger.Error("Plant data load failed: %v", err)
		if helpers.IsDataUnavailable(err) {
			return nil, err
		}
		return nil, helpers.NewDataUnavailable(err)
	}

	assets := tables.Assets
	if assets == nil {
		assets = timeseries.NewAssetTable(nil, timeseries.AssetColumnSet{})
	}
	elapsed := time.Since(start)
	latest, _ := tables.Measurements.MaxTime()

	s := &plantSnapshot{
		measurements: tables.Measurements,
		assets:       assets,
		status: models.MPlantStatus{
			Loaded:          true,
			MeasurementRows: tables.Measurements.Len(),
			Assets:          assets.Len(),
			LatestTimestamp: latest,
			LoadedAt:        time.Now().UTC(),
			LoadSeconds:     elapsed.Seconds(),
			Source:          tables.Source,
		},
	}
	c.data.Store(s)

	loadAttempts.WithLabelValues("success").Inc()
	loadDuration.Observe(elapsed.Seconds())
	measurementRows.Set(float64(s.status.MeasurementRows))
	c.Logger.Info("Plant data loaded from %s: %d rows, %d assets in %v", tables.Source, s.status.MeasurementRows, s.status.Assets, elapsed)

	return s, nil
}

// -----------------------------------------------------------------------------

// GetMeasurementTable implements interfaces.IPlantSource
func (c *PlantDataCache) GetMeasurementTable(ctx context.Context) (*timeseries.MeasurementTable, error) {
	s, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.measurements.Clone(), nil
}

// -----------------------------------------------------------------------------

// GetAssetTable implements interfaces.IPlantSource
func (c *PlantDataCache) GetAssetTable(ctx context.Context) (*timeseries.AssetTable, error) {
	s, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.assets.Clone(), nil
}

// -----------------------------------------------------------------------------

// Warm triggers the first load ahead of any request
func (c *PlantDataCache) Warm(ctx context.Context) error {
	_, err := c.snapshot(ctx)
	return err
}

// -----------------------------------------------------------------------------

func (c *PlantDataCache) Status() models.MPlantStatus {
	if s := c.data.Load(); s != nil {
		return s.status
	}
	return models.MPlantStatus{}
}
