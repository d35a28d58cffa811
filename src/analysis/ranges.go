package analysis

import (
	"time"

	"windfarm-observer/src/helpers"
)

// Supported lookback keys
const (
	Range24h = "24h"
	Range7d  = "7d"
	Range30d = "30d"
)

var rangeDurations = map[string]time.Duration{
	Range24h: 24 * time.Hour,
	Range7d:  7 * 24 * time.Hour,
	Range30d: 30 * 24 * time.Hour,
}

// -----------------------------------------------------------------------------

// ParseRange maps a range key to its lookback duration
func ParseRange(key string) (time.Duration, error) {
	d, ok := rangeDurations[key]
	if !ok {
		return 0, helpers.NewInvalidRange(key)
	}
	return d, nil
}

// -----------------------------------------------------------------------------

// RangeKeys lists the supported keys, shortest first
func RangeKeys() []string {
	return []string{Range24h, Range7d, Range30d}
}
