package analysis

import (
	"windfarm-observer/src/analysis/curve"
	"windfarm-observer/src/interfaces"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
)

// Fallbacks used when the analysis section of the config leaves a field unset
const (
	defaultRatedPowerMW     = 2.05
	defaultMaxScatterPoints = 2500
	defaultCurveStepMS      = 0.25
	defaultMaxWindSpeedMS   = 35.0
	defaultBinWidthMS       = 0.5
	defaultCurveEndMS       = 30.0
	defaultWarningTempC     = 35.0
)

// AnalysisFacade runs the stateless aggregations over table snapshots.
// It holds no mutable state and is safe for concurrent use.
type AnalysisFacade struct {
	Config   *models.MConfig
	Settings models.MAnalysisConfig
	Fitter   interfaces.ICurveFitter
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	settings := withDefaults(cfg.Analysis)
	return &AnalysisFacade{
		Config:   cfg,
		Settings: settings,
		Fitter:   curve.NewIECBinFitter(settings.BinWidthMS, settings.CurveStartMS, settings.CurveEndMS),
		Logger:   log,
	}
}

// -----------------------------------------------------------------------------

// WithFitter swaps the curve-fitting strategy
func (a *AnalysisFacade) WithFitter(f interfaces.ICurveFitter) *AnalysisFacade {
	cp := *a
	cp.Fitter = f
	return &cp
}

// -----------------------------------------------------------------------------

func withDefaults(s models.MAnalysisConfig) models.MAnalysisConfig {
	if s.DefaultRange == "" {
		s.DefaultRange = Range24h
	}
	if s.CurveRange == "" {
		s.CurveRange = Range30d
	}
	if s.DefaultRatedPowerMW <= 0 {
		s.DefaultRatedPowerMW = defaultRatedPowerMW
	}
	if s.MaxScatterPoints <= 0 {
		s.MaxScatterPoints = defaultMaxScatterPoints
	}
	if s.CurveStepMS <= 0 {
		s.CurveStepMS = defaultCurveStepMS
	}
	if s.MaxWindSpeedMS <= s.MinWindSpeedMS {
		s.MaxWindSpeedMS = defaultMaxWindSpeedMS
	}
	if s.BinWidthMS <= 0 {
		s.BinWidthMS = defaultBinWidthMS
	}
	if s.CurveEndMS <= s.CurveStartMS {
		s.CurveEndMS = s.CurveStartMS + defaultCurveEndMS
	}
	if s.WarningTemperatureC == 0 {
		s.WarningTemperatureC = defaultWarningTempC
	}
	if s.MaxTurbinePageLimit <= 0 {
		s.MaxTurbinePageLimit = 200
	}
	if s.DefaultTurbineLimit <= 0 {
		s.DefaultTurbineLimit = 50
	}
	return s
}
