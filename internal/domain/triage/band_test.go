package triage

import (
	"math"
	"testing"
)

func TestClassifyBand_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Band
	}{
		{"zero", 0, BandLow},
		{"just below ten", 9.999, BandLow},
		{"exactly ten", 10, BandMid},
		{"mid range", 55, BandMid},
		{"exactly one hundred", 100, BandMid},
		{"just above one hundred", 100.001, BandHigh},
		{"very high", 2500, BandHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyBand(&tt.value); got != tt.want {
				t.Errorf("ClassifyBand(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestClassifyBand_Absent(t *testing.T) {
	if got := ClassifyBand(nil); got != BandNone {
		t.Errorf("ClassifyBand(nil) = %q, want %q", got, BandNone)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v := v
		if got := ClassifyBand(&v); got != BandNone {
			t.Errorf("ClassifyBand(%v) = %q, want %q", v, got, BandNone)
		}
	}
}
