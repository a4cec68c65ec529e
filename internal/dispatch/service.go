// Package dispatch implements booking intake, nearest-ambulance assignment
// and the booking lifecycle.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ambulance-dispatch/internal/db"
	"github.com/ukydev/ambulance-dispatch/internal/models"
	"github.com/ukydev/ambulance-dispatch/internal/relay"
	"github.com/ukydev/ambulance-dispatch/internal/routes"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingPatientInfo  = errors.New("patient name and phone are required")
	ErrMissingVehicleInfo  = errors.New("vehicle number is required")
	ErrInvalidAccidentType = errors.New("invalid accident type")
	ErrInvalidStatus       = errors.New("invalid booking status")
)

const (
	// DefaultRadiusMeters bounds the nearest-ambulance search for new bookings.
	DefaultRadiusMeters = 50000
	// DefaultNearbyLimit caps nearby-ambulance listings.
	DefaultNearbyLimit = 10
)

// Service wires the fleet registry, the booking store, the relay and the
// route estimator together. Ambulance availability is mutated only through
// this service.
type Service struct {
	ambulances   db.AmbulanceCollection
	bookings     db.BookingCollection
	publisher    relay.Publisher
	estimator    routes.Estimator
	radiusMeters float64
}

// NewService creates a dispatch service. A radius of 0 falls back to
// DefaultRadiusMeters; a nil publisher disables notifications.
func NewService(ambulances db.AmbulanceCollection, bookings db.BookingCollection, publisher relay.Publisher, estimator routes.Estimator, radiusMeters float64) *Service {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if publisher == nil {
		publisher = relay.NopPublisher{}
	}
	return &Service{
		ambulances:   ambulances,
		bookings:     bookings,
		publisher:    publisher,
		estimator:    estimator,
		radiusMeters: radiusMeters,
	}
}

// CreateBooking validates the intake request, tries to reserve the nearest
// available ambulance and persists the booking. With a reservation the
// booking starts ACCEPTED; without one it starts REQUESTED and keeps a nil
// ambulance reference.
func (s *Service) CreateBooking(ctx context.Context, patientID primitive.ObjectID, req models.CreateBookingRequest) (*models.Booking, error) {
	if req.PatientName == "" || req.PatientPhone == "" {
		return nil, ErrMissingPatientInfo
	}
	if !models.IsValidAccidentType(req.AccidentType) {
		return nil, ErrInvalidAccidentType
	}
	point, err := models.ParseGeoPoint(req.PickupLocation)
	if err != nil {
		return nil, err
	}

	ambulance, err := s.ambulances.ReserveNearest(ctx, point, s.radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("reserve ambulance: %w", err)
	}

	booking := models.Booking{
		PatientID:    patientID,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		PickupLocation: models.PickupLocation{
			GeoPoint: point,
			Address:  req.Address,
		},
		AccidentType: req.AccidentType,
		PhotoRef:     req.PhotoRef,
		Status:       models.StatusRequested,
	}
	if ambulance != nil {
		booking.AmbulanceID = &ambulance.ID
		booking.Status = models.StatusAccepted
		s.attachEstimate(ctx, &booking, ambulance.CurrentLocation, point)
	}

	created, err := s.bookings.InsertBooking(ctx, booking)
	if err != nil {
		// The ambulance was already flipped; put it back so a failed booking
		// write cannot strand it unavailable.
		if ambulance != nil {
			if relErr := s.ambulances.Release(ctx, ambulance.ID); relErr != nil {
				log.WithError(relErr).WithField("ambulance_id", ambulance.ID.Hex()).
					Error("Failed to release ambulance after booking write failure")
			}
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	s.publisher.Publish(relay.EventBookingCreated, created)
	return &created, nil
}

// attachEstimate fills the estimate/distance strings best-effort; a failed
// estimate never fails the booking.
func (s *Service) attachEstimate(ctx context.Context, booking *models.Booking, from, to models.GeoPoint) {
	if s.estimator == nil {
		return
	}
	est, err := s.estimator.Estimate(ctx, from, to)
	if err != nil {
		log.WithError(err).Warn("Route estimate failed")
		return
	}
	booking.EstimatedTime = est.Duration
	booking.Distance = est.Distance
}

// UpdateBookingStatus moves a booking to the requested status. The source
// state is deliberately not validated; drivers and dispatchers correct
// mislabeled bookings this way. Reaching COMPLETED with an ambulance attached
// releases that ambulance back into the available pool.
func (s *Service) UpdateBookingStatus(ctx context.Context, req models.UpdateBookingStatusRequest) (*models.Booking, error) {
	if !models.IsValidStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	updated, err := s.bookings.UpdateBookingStatus(ctx, req.BookingID, req.Status, req.EstimatedTime, req.Distance)
	if err != nil {
		return nil, err
	}

	if req.Status == models.StatusCompleted && updated.AmbulanceID != nil {
		if err := s.ambulances.Release(ctx, *updated.AmbulanceID); err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("release ambulance: %w", err)
		}
	}

	s.publisher.Publish(relay.EventBookingStatusUpdate, updated)
	return updated, nil
}

// ListAllBookings returns every booking, newest first.
func (s *Service) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.FindAllBookings(ctx)
}

// ListPatientBookings returns the patient's bookings, newest first.
func (s *Service) ListPatientBookings(ctx context.Context, patientID primitive.ObjectID) ([]models.Booking, error) {
	return s.bookings.FindBookingsByPatient(ctx, patientID)
}

// NearbyAmbulances lists available ambulances around a point, nearest first.
// Non-positive radius and limit fall back to the defaults.
func (s *Service) NearbyAmbulances(ctx context.Context, point models.GeoPoint, radiusMeters float64, limit int64) ([]models.Ambulance, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}
	return s.ambulances.FindNearby(ctx, point, radiusMeters, limit)
}

// ListAmbulances returns the whole fleet, available or not.
func (s *Service) ListAmbulances(ctx context.Context) ([]models.Ambulance, error) {
	return s.ambulances.FindAll(ctx)
}

// RegisterAmbulance onboards a vehicle into the fleet. New ambulances start
// available at the given position.
func (s *Service) RegisterAmbulance(ctx context.Context, driverID primitive.ObjectID, req models.RegisterAmbulanceRequest) (*models.Ambulance, error) {
	if req.VehicleNumber == "" {
		return nil, ErrMissingVehicleInfo
	}
	point, err := models.ParseCoordinates(req.Coordinates)
	if err != nil {
		return nil, err
	}

	ambulance, err := s.ambulances.InsertAmbulance(ctx, models.Ambulance{
		DriverID:        driverID,
		VehicleNumber:   req.VehicleNumber,
		DriverName:      req.DriverName,
		DriverPhone:     req.DriverPhone,
		CurrentLocation: point,
		Available:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("insert ambulance: %w", err)
	}
	return &ambulance, nil
}

// UpdateAmbulanceLocation overwrites an ambulance's position and broadcasts
// the change.
func (s *Service) UpdateAmbulanceLocation(ctx context.Context, req models.UpdateAmbulanceLocationRequest) (*models.Ambulance, error) {
	point, err := models.ParseCoordinates(req.Coordinates)
	if err != nil {
		return nil, err
	}

	ambulance, err := s.ambulances.UpdateLocation(ctx, req.AmbulanceID, point)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(relay.EventAmbulanceLocationUpdate, ambulance)
	return ambulance, nil
}
