package grpc_control

import (
	"context"
	"math"
	"time"

	"windfarm-observer/src/analysis"
	"windfarm-observer/src/helpers"
	"windfarm-observer/src/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ControlService implements the PlantControlServer interface
type ControlService struct {
	Dashboard *analysis.DashboardService
	Logger    *logger.Logger
}

// NewControlService creates a new instance of ControlService
func NewControlService(dashboard *analysis.DashboardService, log *logger.Logger) *ControlService {
	return &ControlService{
		Dashboard: dashboard,
		Logger:    log,
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st := s.Dashboard.Status()
	return s.reply(map[string]interface{}{
		"loaded":           st.Loaded,
		"measurement_rows": float64(st.MeasurementRows),
		"assets":           float64(st.Assets),
		"latest_timestamp": formatTime(st.LatestTimestamp),
		"loaded_at":        formatTime(st.LoadedAt),
		"load_seconds":     st.LoadSeconds,
		"source":           st.Source,
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetMetricsSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rangeKey := stringField(req, "range", s.Dashboard.Facade.Settings.DefaultRange)

	summary, err := s.Dashboard.MetricsSummary(ctx, rangeKey)
	if err != nil {
		return nil, s.toStatus("GetMetricsSummary", err)
	}
	return s.reply(map[string]interface{}{
		"range":              rangeKey,
		"timestamp":          formatTime(summary.Timestamp),
		"powerOutputMW":      summary.PowerOutputMW,
		"averageWindSpeedMS": summary.AvgWindSpeedMS,
		"efficiencyPct":      summary.EfficiencyPct,
		"activeTurbines":     float64(summary.ActiveTurbines),
		"totalTurbines":      float64(summary.TotalTurbines),
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetTurbineStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit, err := intField(req, "limit", s.Dashboard.Facade.Settings.DefaultTurbineLimit)
	if err != nil {
		return nil, s.toStatus("GetTurbineStatus", err)
	}
	offset, err := intField(req, "offset", 0)
	if err != nil {
		return nil, s.toStatus("GetTurbineStatus", err)
	}

	page, err := s.Dashboard.TurbineStatus(ctx, limit, offset)
	if err != nil {
		return nil, s.toStatus("GetTurbineStatus", err)
	}

	rows := make([]interface{}, 0, len(page.Rows))
	for _, r := range page.Rows {
		row := map[string]interface{}{
			"turbineId":    r.TurbineID,
			"status":       r.Status,
			"generationKW": r.GenerationKW,
			"temperatureC": nil,
			"lastUpdate":   formatTime(r.LastUpdate),
		}
		if r.TemperatureC != nil {
			row["temperatureC"] = *r.TemperatureC
		}
		rows = append(rows, row)
	}
	return s.reply(map[string]interface{}{
		"rows":  rows,
		"total": float64(page.Total),
	})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *ControlService) reply(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		s.Logger.Error("Failed to encode reply: %v", err)
		return nil, status.Error(codes.Internal, "failed to encode reply")
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) toStatus(method string, err error) error {
	switch {
	case helpers.IsInvalidRange(err), helpers.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case helpers.IsDataUnavailable(err):
		return status.Error(codes.Unavailable, err.Error())
	default:
		s.Logger.Error("%s failed: %v", method, err)
		return status.Error(codes.Internal, err.Error())
	}
}

// -----------------------------------------------------------------------------

func stringField(req *structpb.Struct, key, fallback string) string {
	if v, ok := req.GetFields()[key]; ok && v.GetStringValue() != "" {
		return v.GetStringValue()
	}
	return fallback
}

// -----------------------------------------------------------------------------

func intField(req *structpb.Struct, key string, fallback int) (int, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return fallback, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, helpers.NewValidation("%s must be an integer", key)
	}
	return int(n.NumberValue), nil
}

// -----------------------------------------------------------------------------

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
