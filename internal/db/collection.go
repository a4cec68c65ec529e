package db

import (
	"context"

	"github.com/ukydev/ambulance-dispatch/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AmbulanceCollection defines the interface for fleet registry operations.
// Availability is only flipped through ReserveNearest, Release and
// SetAvailability so that the reservation invariant holds.
type AmbulanceCollection interface {
	InsertAmbulance(ctx context.Context, ambulance models.Ambulance) (models.Ambulance, error)
	ReserveNearest(ctx context.Context, point models.GeoPoint, radiusMeters float64) (*models.Ambulance, error)
	Release(ctx context.Context, id primitive.ObjectID) error
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
	UpdateLocation(ctx context.Context, id string, point models.GeoPoint) (*models.Ambulance, error)
	FindNearby(ctx context.Context, point models.GeoPoint, radiusMeters float64, limit int64) ([]models.Ambulance, error)
	FindAll(ctx context.Context) ([]models.Ambulance, error)
}

// BookingCollection defines the interface for booking lifecycle operations.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) (models.Booking, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	FindAllBookings(ctx context.Context) ([]models.Booking, error)
	FindBookingsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, estimatedTime, distance string) (*models.Booking, error)
}

// UserCollection defines the interface for account operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
