// Package routes produces human-readable travel estimates for the stretch
// between an assigned ambulance and the pickup point.
package routes

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ukydev/ambulance-dispatch/internal/models"
	"googlemaps.github.io/maps"
)

// Estimate carries display strings, matching the booking fields the tracking
// screens render.
type Estimate struct {
	Duration string
	Distance string
}

// Estimator computes a travel estimate from origin to destination.
type Estimator interface {
	Estimate(ctx context.Context, origin, destination models.GeoPoint) (Estimate, error)
}

// GoogleEstimator asks the Google Maps Directions API for driving estimates.
type GoogleEstimator struct {
	client *maps.Client
}

// NewGoogleEstimator creates an estimator with the given API key.
func NewGoogleEstimator(apiKey string) (*GoogleEstimator, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleEstimator{client: client}, nil
}

// Estimate returns the driving duration and distance of the best route.
func (e *GoogleEstimator) Estimate(ctx context.Context, origin, destination models.GeoPoint) (Estimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat(), origin.Lng()),
		Destination: fmt.Sprintf("%f,%f", destination.Lat(), destination.Lng()),
		Mode:        maps.TravelModeDriving,
	}

	directions, _, err := e.client.Directions(ctx, r)
	if err != nil {
		return Estimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(directions) == 0 || len(directions[0].Legs) == 0 {
		return Estimate{}, fmt.Errorf("no route found")
	}

	leg := directions[0].Legs[0]
	return Estimate{
		Duration: FormatDuration(leg.Duration),
		Distance: leg.Distance.HumanReadable,
	}, nil
}

// HaversineEstimator approximates estimates from great-circle distance and an
// average road speed. Used when no Maps API key is configured.
type HaversineEstimator struct {
	AverageSpeedKmh float64
}

// Estimate implements Estimator.
func (e HaversineEstimator) Estimate(_ context.Context, origin, destination models.GeoPoint) (Estimate, error) {
	speed := e.AverageSpeedKmh
	if speed <= 0 {
		speed = 40
	}
	meters := models.HaversineMeters(origin, destination)
	duration := time.Duration(meters / 1000 / speed * float64(time.Hour))
	return Estimate{
		Duration: FormatDuration(duration),
		Distance: FormatDistance(meters),
	}, nil
}

// FormatDistance renders meters the way the booking screens expect.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders a duration in whole minutes, rounding up so short
// hops never show "0 mins".
func FormatDuration(d time.Duration) string {
	mins := int(math.Ceil(d.Minutes()))
	if mins < 1 {
		mins = 1
	}
	if mins < 60 {
		return fmt.Sprintf("%d mins", mins)
	}
	return fmt.Sprintf("%d hr %d mins", mins/60, mins%60)
}
