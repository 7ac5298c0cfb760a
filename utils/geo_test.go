package utils

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestCalculateDistanceKnownCities(t *testing.T) {
	// Paris to London is roughly 344 km great-circle.
	got := CalculateDistance(ptr(2.3522), ptr(48.8566), ptr(-0.1278), ptr(51.5074))
	if got < 340 || got > 350 {
		t.Fatalf("Paris-London distance = %d, want ~344", got)
	}
}

func TestCalculateDistanceSamePoint(t *testing.T) {
	if got := CalculateDistance(ptr(77.2090), ptr(28.6139), ptr(77.2090), ptr(28.6139)); got != 0 {
		t.Fatalf("same point distance = %d, want 0", got)
	}
}

func TestCalculateDistanceRoundsToWholeKm(t *testing.T) {
	// Two points ~1.5 km apart on the equator round to 2.
	got := CalculateDistance(ptr(0.0), ptr(0.0), ptr(0.0135), ptr(0.0))
	if got != 2 {
		t.Fatalf("distance = %d, want 2", got)
	}
}

func TestCalculateDistanceMissingCoordinates(t *testing.T) {
	if got := CalculateDistance(nil, ptr(10.0), ptr(20.0), ptr(30.0)); got != DistanceUnknown {
		t.Fatalf("missing longitude: got %d, want DistanceUnknown", got)
	}
	if got := CalculateDistance(ptr(10.0), ptr(20.0), nil, nil); got != DistanceUnknown {
		t.Fatalf("missing pair: got %d, want DistanceUnknown", got)
	}
}

func TestCalculateDistanceOutOfRange(t *testing.T) {
	cases := []struct {
		name                   string
		lon1, lat1, lon2, lat2 float64
	}{
		{"longitude over 180", 181, 0, 0, 0},
		{"latitude over 90", 0, 91, 0, 0},
		{"latitude under -90", 0, 0, 0, -91},
		{"nan latitude", 0, math.NaN(), 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateDistance(ptr(tc.lon1), ptr(tc.lat1), ptr(tc.lon2), ptr(tc.lat2))
			if got != DistanceUnknown {
				t.Fatalf("got %d, want DistanceUnknown", got)
			}
		})
	}
}

func TestDistanceUnknownSortsLast(t *testing.T) {
	real := CalculateDistance(ptr(0.0), ptr(0.0), ptr(179.0), ptr(0.0))
	if real >= DistanceUnknown {
		t.Fatalf("real distance %d should sort before DistanceUnknown", real)
	}
}
