package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	assert.Zero(t, DistanceKm(37.7749, -122.4194, 37.7749, -122.4194))
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
	}{
		{
			name: "san francisco to los angeles",
			lat1: 37.7749, lon1: -122.4194,
			lat2: 34.0522, lon2: -118.2437,
			wantKm: 559,
		},
		{
			name: "san francisco to oakland",
			lat1: 37.7749, lon1: -122.4194,
			lat2: 37.8044, lon2: -122.2712,
			wantKm: 13.4,
		},
		{
			name: "london to paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm: 343.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKm, got, tt.wantKm*0.01)
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := DistanceKm(37.7749, -122.4194, 34.0522, -118.2437)
	b := DistanceKm(34.0522, -118.2437, 37.7749, -122.4194)
	assert.InDelta(t, a, b, 1e-9)
}

func TestDistanceKm_Antipodal(t *testing.T) {
	// Half the Earth's circumference at the chosen radius
	got := DistanceKm(0, 0, 0, 180)
	assert.InDelta(t, math.Pi*earthRadiusKm, got, 0.1)
}
