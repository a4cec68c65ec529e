package routes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ambulance-dispatch/internal/models"
)

func TestHaversineEstimator(t *testing.T) {
	// Bangalore ambulance to pickup, about 1.1 km apart.
	origin := models.NewGeoPoint(77.5946, 12.9716)
	destination := models.NewGeoPoint(77.6031, 12.9698)

	est, err := HaversineEstimator{}.Estimate(context.Background(), origin, destination)
	require.NoError(t, err)
	assert.Equal(t, FormatDistance(models.HaversineMeters(origin, destination)), est.Distance)
	assert.Equal(t, "2 mins", est.Duration)
}

func TestHaversineEstimator_SlowFleet(t *testing.T) {
	origin := models.NewGeoPoint(77.5946, 12.9716)
	destination := models.NewGeoPoint(77.6031, 12.9698)

	fast, err := HaversineEstimator{AverageSpeedKmh: 80}.Estimate(context.Background(), origin, destination)
	require.NoError(t, err)
	slow, err := HaversineEstimator{AverageSpeedKmh: 10}.Estimate(context.Background(), origin, destination)
	require.NoError(t, err)
	assert.NotEqual(t, fast.Duration, slow.Duration)
	assert.Equal(t, fast.Distance, slow.Distance)
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters   float64
		expected string
	}{
		{120, "120 m"},
		{999, "999 m"},
		{1000, "1.0 km"},
		{4230, "4.2 km"},
		{50000, "50.0 km"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.expected {
			t.Errorf("FormatDistance(%f) = %q, want %q", tt.meters, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{20 * time.Second, "1 mins"},
		{90 * time.Second, "2 mins"},
		{45 * time.Minute, "45 mins"},
		{65 * time.Minute, "1 hr 5 mins"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}
