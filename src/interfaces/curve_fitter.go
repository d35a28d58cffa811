package interfaces

import "windfarm-observer/src/models"

// -----------------------------------------------------------------------------
// ICurveFitter is a pluggable power-curve fitting strategy.
// -----------------------------------------------------------------------------

type ICurveFitter interface {

	// Name identifies the strategy in logs
	Name() string

	// -----------------------------------------------------------------------------

	// Fit builds a wind speed -> power function from the cleaned samples.
	// The returned function must be pure and safe for concurrent use.
	// ok is false when the samples cannot support a curve.
	Fit(samples []models.MCurvePoint) (curve func(windSpeedMS float64) float64, ok bool)
}
