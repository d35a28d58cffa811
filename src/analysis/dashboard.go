package analysis

import (
	"context"

	"windfarm-observer/src/helpers"
	"windfarm-observer/src/interfaces"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
)

// Single-value metrics derived from the summary
const (
	MetricPowerOutput    = "power-output"
	MetricWindSpeed      = "wind-speed"
	MetricEfficiency     = "efficiency"
	MetricActiveTurbines = "active-turbines"
)

// DashboardService binds the facade to a plant source. Every call takes fresh
// table copies from the source so requests never share mutable state.
type DashboardService struct {
	Source interfaces.IPlantSource
	Facade *AnalysisFacade
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewDashboardService(source interfaces.IPlantSource, facade *AnalysisFacade, log *logger.Logger) *DashboardService {
	return &DashboardService{Source: source, Facade: facade, Logger: log}
}

// -----------------------------------------------------------------------------

func (d *DashboardService) MetricsSummary(ctx context.Context, rangeKey string) (models.MMetricsSummary, error) {
	if _, err := ParseRange(rangeKey); err != nil {
		return models.MMetricsSummary{}, err
	}
	table, err := d.Source.GetMeasurementTable(ctx)
	if err != nil {
		return models.MMetricsSummary{}, err
	}
	assets, err := d.Source.GetAssetTable(ctx)
	if err != nil {
		return models.MMetricsSummary{}, err
	}
	return d.Facade.Summarize(table, assets, rangeKey)
}

// -----------------------------------------------------------------------------

// MetricValue projects one field of the summary
func (d *DashboardService) MetricValue(ctx context.Context, rangeKey, metric string) (models.MMetricValue, error) {
	summary, err := d.MetricsSummary(ctx, rangeKey)
	if err != nil {
		return models.MMetricValue{}, err
	}

	value := models.MMetricValue{Timestamp: summary.Timestamp}
	switch metric {
	case MetricPowerOutput:
		value.Value = summary.PowerOutputMW
	case MetricWindSpeed:
		value.Value = summary.AvgWindSpeedMS
	case MetricEfficiency:
		value.Value = summary.EfficiencyPct
	case MetricActiveTurbines:
		value.Value = float64(summary.ActiveTurbines)
	default:
		return models.MMetricValue{}, helpers.NewValidation("unknown metric %q", metric)
	}
	return value, nil
}

// -----------------------------------------------------------------------------

func (d *DashboardService) PowerCurve(ctx context.Context, rangeKey string) (models.MPowerCurveData, error) {
	if _, err := ParseRange(rangeKey); err != nil {
		return models.MPowerCurveData{}, err
	}
	table, err := d.Source.GetMeasurementTable(ctx)
	if err != nil {
		return models.MPowerCurveData{}, err
	}
	s := d.Facade.Settings
	return d.Facade.BuildPowerCurve(table, rangeKey, s.MaxScatterPoints, s.CurveStepMS)
}

// -----------------------------------------------------------------------------

// TurbineStatus pages the health list; limit must be in [1, max page limit]
func (d *DashboardService) TurbineStatus(ctx context.Context, limit, offset int) (models.MTurbineHealthPage, error) {
	maxLimit := d.Facade.Settings.MaxTurbinePageLimit
	if limit < 1 || limit > maxLimit {
		return models.MTurbineHealthPage{}, helpers.NewValidation("limit must be between 1 and %d", maxLimit)
	}
	if offset < 0 {
		return models.MTurbineHealthPage{}, helpers.NewValidation("offset must be >= 0")
	}

	table, err := d.Source.GetMeasurementTable(ctx)
	if err != nil {
		return models.MTurbineHealthPage{}, err
	}
	var fallback []string
	if !table.HasAssetIDs() {
		assets, err := d.Source.GetAssetTable(ctx)
		if err != nil {
			return models.MTurbineHealthPage{}, err
		}
		fallback = assets.TurbineIDs()
	}
	return d.Facade.ClassifyTurbines(table, fallback, limit, offset), nil
}

// -----------------------------------------------------------------------------

func (d *DashboardService) GeospatialTurbines(ctx context.Context) ([]models.MTurbineGeo, error) {
	assets, err := d.Source.GetAssetTable(ctx)
	if err != nil {
		return nil, err
	}
	table, err := d.Source.GetMeasurementTable(ctx)
	if err != nil {
		return nil, err
	}
	return d.Facade.GeospatialSnapshot(assets, table), nil
}

// -----------------------------------------------------------------------------

// Status passes through the source's load state
func (d *DashboardService) Status() models.MPlantStatus {
	return d.Source.Status()
}
