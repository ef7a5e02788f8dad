package triage

import "math"

// ClassifyBand maps a FIT result to its band. A nil or non-finite value
// yields BandNone so that "no result" propagates instead of erroring.
// Boundaries are inclusive on the mid band: 10 and 100 both classify as
// BandMid.
func ClassifyBand(value *float64) Band {
	if value == nil {
		return BandNone
	}
	v := *value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return BandNone
	}
	switch {
	case v < 10:
		return BandLow
	case v <= 100:
		return BandMid
	default:
		return BandHigh
	}
}
