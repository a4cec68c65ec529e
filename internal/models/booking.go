package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	StatusRequested BookingStatus = "REQUESTED"
	StatusAccepted  BookingStatus = "ACCEPTED"
	StatusOnWay     BookingStatus = "ON_WAY"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// IsValidStatus checks if a status value is part of the lifecycle enumeration.
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case StatusRequested, StatusAccepted, StatusOnWay, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is expected from s.
func IsTerminal(s BookingStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AccidentType is the closed set of accident categories a booking can carry.
type AccidentType string

const (
	AccidentRoadAccident       AccidentType = "Road Accident"
	AccidentHeartAttack        AccidentType = "Heart Attack"
	AccidentFireInjury         AccidentType = "Fire Injury"
	AccidentSnakeBite          AccidentType = "Snake Bite"
	AccidentPregnancyEmergency AccidentType = "Pregnancy Emergency"
	AccidentOther              AccidentType = "Other"
)

// IsValidAccidentType checks if a category is one of the enumerated values.
func IsValidAccidentType(t AccidentType) bool {
	switch t {
	case AccidentRoadAccident, AccidentHeartAttack, AccidentFireInjury,
		AccidentSnakeBite, AccidentPregnancyEmergency, AccidentOther:
		return true
	default:
		return false
	}
}

// PickupLocation is the booking pickup point plus its free-text address.
type PickupLocation struct {
	GeoPoint `bson:",inline"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
}

// Booking represents an ambulance request through its lifecycle. Bookings are
// never deleted; terminal states are kept for history.
type Booking struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PatientID      primitive.ObjectID  `bson:"patient_id" json:"patient_id"`
	PatientName    string              `bson:"patient_name" json:"patient_name"`
	PatientPhone   string              `bson:"patient_phone" json:"patient_phone"`
	AmbulanceID    *primitive.ObjectID `bson:"ambulance_id,omitempty" json:"ambulance_id,omitempty"`
	PickupLocation PickupLocation      `bson:"pickup_location" json:"pickup_location"`
	AccidentType   AccidentType        `bson:"accident_type" json:"accident_type"`
	PhotoRef       string              `bson:"photo_ref,omitempty" json:"photo_ref,omitempty"`
	Status         BookingStatus       `bson:"status" json:"status"`
	EstimatedTime  string              `bson:"estimated_time,omitempty" json:"estimated_time,omitempty"`
	Distance       string              `bson:"distance,omitempty" json:"distance,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// CreateBookingRequest is the intake payload. PickupLocation is kept raw
// because clients send either a GeoJSON object or a stringified one.
type CreateBookingRequest struct {
	PatientName    string          `json:"patient_name"`
	PatientPhone   string          `json:"patient_phone"`
	PickupLocation json.RawMessage `json:"pickup_location"`
	AccidentType   AccidentType    `json:"accident_type"`
	Address        string          `json:"address"`
	PhotoRef       string          `json:"photo_ref"`
}

// UpdateBookingStatusRequest moves a booking through its lifecycle. Estimate
// and distance are optional; empty values leave the stored ones unchanged.
type UpdateBookingStatusRequest struct {
	BookingID     string        `json:"booking_id"`
	Status        BookingStatus `json:"status"`
	EstimatedTime string        `json:"estimated_time"`
	Distance      string        `json:"distance"`
}

// UpdateAmbulanceLocationRequest overwrites an ambulance's current location.
type UpdateAmbulanceLocationRequest struct {
	AmbulanceID string            `json:"ambulance_id"`
	Coordinates []json.RawMessage `json:"coordinates"`
}

// RegisterAmbulanceRequest onboards a vehicle into the fleet.
type RegisterAmbulanceRequest struct {
	VehicleNumber string            `json:"vehicle_number"`
	DriverName    string            `json:"driver_name"`
	DriverPhone   string            `json:"driver_phone"`
	Coordinates   []json.RawMessage `json:"coordinates"`
}
